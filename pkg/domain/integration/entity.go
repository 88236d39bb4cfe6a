// Package integration contains the integration domain model: provider
// definitions, connection status, and the repository contract.
package integration

import (
	"time"
)

// Type represents the integration authentication/connection type.
// It determines which config fields are mandatory on connect.
type Type string

const (
	TypeWebhook Type = "webhook"
	TypeOAuth   Type = "oauth"
	TypeAPIKey  Type = "api-key"
	TypeSAML    Type = "saml"
)

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the type is valid.
func (t Type) IsValid() bool {
	switch t {
	case TypeWebhook, TypeOAuth, TypeAPIKey, TypeSAML:
		return true
	default:
		return false
	}
}

// Status represents the integration connection status.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusPending      Status = "pending"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusDisconnected, StatusPending, StatusConnected, StatusError:
		return true
	default:
		return false
	}
}

// Category classifies an integration. Informational only; the core never
// branches on it.
type Category string

const (
	CategoryProductivity  Category = "productivity"
	CategoryCommunication Category = "communication"
	CategoryStorage       Category = "storage"
	CategoryAutomation    Category = "automation"
	CategoryAnalytics     Category = "analytics"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategoryProductivity, CategoryCommunication, CategoryStorage, CategoryAutomation, CategoryAnalytics:
		return true
	default:
		return false
	}
}

// Config is an opaque key/value map holding secrets and endpoint info.
type Config map[string]string

// Clone returns a copy of the config.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Definition describes a provider in the static catalog.
type Definition struct {
	ID           string
	Name         string
	Description  string
	Type         Type
	Category     Category
	Capabilities []string
}

// Validate checks the definition for catalog registration.
func (d Definition) Validate() error {
	if d.ID == "" {
		return ErrInvalidDefinition
	}
	if !d.Type.IsValid() {
		return ErrInvalidType
	}
	if !d.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

// Integration represents a registered connection to a third-party provider.
type Integration struct {
	id           string
	name         string
	description  string
	typ          Type
	category     Category
	status       Status
	config       Config
	capabilities []string
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates an Integration from a catalog definition. New integrations
// start disconnected with an empty config.
func New(def Definition) *Integration {
	now := time.Now()
	return &Integration{
		id:           def.ID,
		name:         def.Name,
		description:  def.Description,
		typ:          def.Type,
		category:     def.Category,
		status:       StatusDisconnected,
		config:       Config{},
		capabilities: append([]string(nil), def.Capabilities...),
		createdAt:    now,
		updatedAt:    now,
	}
}

// ID returns the integration ID.
func (i *Integration) ID() string { return i.id }

// Name returns the display name.
func (i *Integration) Name() string { return i.name }

// Description returns the description.
func (i *Integration) Description() string { return i.description }

// Type returns the integration type.
func (i *Integration) Type() Type { return i.typ }

// Category returns the category.
func (i *Integration) Category() Category { return i.category }

// Status returns the connection status.
func (i *Integration) Status() Status { return i.status }

// Config returns a copy of the config map.
func (i *Integration) Config() Config { return i.config.Clone() }

// ConfigValue returns a single config value.
func (i *Integration) ConfigValue(key string) string { return i.config[key] }

// Capabilities returns a copy of the supported action names.
func (i *Integration) Capabilities() []string {
	return append([]string(nil), i.capabilities...)
}

// CreatedAt returns the creation time.
func (i *Integration) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last modification time.
func (i *Integration) UpdatedAt() time.Time { return i.updatedAt }

// IsConnected reports whether the integration is connected.
func (i *Integration) IsConnected() bool { return i.status == StatusConnected }

// SetStatus updates the connection status.
func (i *Integration) SetStatus(s Status) {
	i.status = s
	i.updatedAt = time.Now()
}

// MergeConfig merges the given values into the stored config. Existing keys
// not present in the update are kept (partial update, not replace).
func (i *Integration) MergeConfig(values Config) {
	if i.config == nil {
		i.config = Config{}
	}
	for k, v := range values {
		i.config[k] = v
	}
	i.updatedAt = time.Now()
}

// ClearConfig drops all stored config, including secrets.
func (i *Integration) ClearConfig() {
	i.config = Config{}
	i.updatedAt = time.Now()
}

// Clone returns a deep copy of the integration.
func (i *Integration) Clone() *Integration {
	out := *i
	out.config = i.config.Clone()
	out.capabilities = append([]string(nil), i.capabilities...)
	return &out
}

// Reconstruct creates an Integration from stored data.
func Reconstruct(
	id, name, description string,
	typ Type,
	category Category,
	status Status,
	config Config,
	capabilities []string,
	createdAt, updatedAt time.Time,
) *Integration {
	return &Integration{
		id:           id,
		name:         name,
		description:  description,
		typ:          typ,
		category:     category,
		status:       status,
		config:       config.Clone(),
		capabilities: append([]string(nil), capabilities...),
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}
