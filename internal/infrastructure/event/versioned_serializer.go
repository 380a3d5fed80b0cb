package event

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/shopcraft/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VersionedSerializer is an EventSerializer that understands schema
// versions: payloads written under an older schema are run through the
// registered upgrade chain before they are decoded.
type VersionedSerializer struct {
	versionRegistry *VersionRegistry
	logger          *zap.Logger
}

// NewVersionedSerializer creates a serializer with an empty version
// registry.
func NewVersionedSerializer(logger *zap.Logger) *VersionedSerializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VersionedSerializer{
		versionRegistry: NewVersionRegistry(),
		logger:          logger,
	}
}

// Register registers an unversioned event type, mirroring the plain
// EventSerializer interface.
func (s *VersionedSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.versionRegistry.RegisterSimpleEvent(eventType, eventInstance)
}

// RegisterVersioned registers an event type with its full schema
// history and upgrade chain.
func (s *VersionedSerializer) RegisterVersioned(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	return s.versionRegistry.RegisterVersionedEvent(eventType, currentVersion, versions, upgraders...)
}

// Serialize marshals the event to JSON. The schema_version field comes
// from the event struct itself.
func (s *VersionedSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize decodes a payload into the current version of the event,
// upgrading older payloads first.
func (s *VersionedSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	config, ok := s.versionRegistry.GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	payload := data
	if version := ExtractVersion(data); version < config.CurrentVersion {
		s.logger.Debug("upgrading event version",
			zap.String("event_type", eventType),
			zap.Int("from_version", version),
			zap.Int("to_version", config.CurrentVersion),
		)
		var err error
		if payload, _, err = s.versionRegistry.UpgradePayload(eventType, data, version); err != nil {
			return nil, fmt.Errorf("failed to upgrade event: %w", err)
		}
	}

	prototype, ok := config.Versions[config.CurrentVersion]
	if !ok {
		return nil, fmt.Errorf("no event type registered for version %d of %s", config.CurrentVersion, eventType)
	}
	return decodeEventAs(prototype, payload)
}

// DeserializeToVersion decodes a payload into a specific schema
// version, upgrading no further than targetVersion. Downgrades are not
// supported.
func (s *VersionedSerializer) DeserializeToVersion(eventType string, data []byte, targetVersion int) (shared.DomainEvent, error) {
	config, ok := s.versionRegistry.GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	version := ExtractVersion(data)
	if version > targetVersion {
		return nil, fmt.Errorf("cannot downgrade event from version %d to %d", version, targetVersion)
	}

	payload := data
	for v := version; v < targetVersion; v++ {
		upgrader, ok := config.Upgraders[v]
		if !ok {
			return nil, fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
		var err error
		if payload, err = upgrader.Upgrade(payload); err != nil {
			return nil, fmt.Errorf("failed to upgrade from v%d to v%d: %w", v, v+1, err)
		}
	}

	prototype, ok := config.Versions[targetVersion]
	if !ok {
		return nil, fmt.Errorf("no event type registered for version %d of %s", targetVersion, eventType)
	}
	return decodeEventAs(prototype, payload)
}

// IsRegistered reports whether the event type is known.
func (s *VersionedSerializer) IsRegistered(eventType string) bool {
	return s.versionRegistry.IsRegistered(eventType)
}

// RegisteredTypes returns all registered event type names.
func (s *VersionedSerializer) RegisteredTypes() []string {
	return s.versionRegistry.RegisteredTypes()
}

// GetCurrentVersion returns the latest schema version for an event
// type.
func (s *VersionedSerializer) GetCurrentVersion(eventType string) (int, bool) {
	return s.versionRegistry.GetCurrentVersion(eventType)
}

// GetVersionRegistry exposes the underlying registry, mainly for the
// migration tooling.
func (s *VersionedSerializer) GetVersionRegistry() *VersionRegistry {
	return s.versionRegistry
}

// UpgradePayloadOnly runs the upgrade chain without decoding, for batch
// migrations that only need the rewritten JSON.
func (s *VersionedSerializer) UpgradePayloadOnly(eventType string, data []byte) ([]byte, int, error) {
	return s.versionRegistry.UpgradePayload(eventType, data, ExtractVersion(data))
}

// decodeEventAs unmarshals payload into a fresh instance of the
// prototype's concrete type.
func decodeEventAs(prototype shared.DomainEvent, payload []byte) (shared.DomainEvent, error) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	eventPtr := reflect.New(t).Interface()

	if err := json.Unmarshal(payload, eventPtr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := eventPtr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}
	return event, nil
}
