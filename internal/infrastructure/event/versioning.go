package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopcraft/backend/internal/domain/shared"
)

// EventUpgrader rewrites an event payload from one schema version to
// the next. Upgraders are chained, each one covers exactly one step.
type EventUpgrader interface {
	// SourceVersion is the version this upgrader reads.
	SourceVersion() int
	// TargetVersion is the version this upgrader produces.
	TargetVersion() int
	// Upgrade rewrites the raw JSON payload.
	Upgrade(payload []byte) ([]byte, error)
}

// VersionedEventConfig describes one event type's schema history.
type VersionedEventConfig struct {
	EventType      string
	CurrentVersion int
	Upgraders      map[int]EventUpgrader      // source version -> upgrader
	Versions       map[int]shared.DomainEvent // version -> struct prototype
}

// VersionRegistry tracks schema versions and upgrade chains per event
// type.
type VersionRegistry struct {
	mu      sync.RWMutex
	configs map[string]*VersionedEventConfig
}

// NewVersionRegistry creates an empty registry.
func NewVersionRegistry() *VersionRegistry {
	return &VersionRegistry{
		configs: make(map[string]*VersionedEventConfig),
	}
}

// RegisterVersionedEvent registers an event type together with a struct
// prototype per version and the upgraders connecting them. The upgrade
// chain must be gapless from version 1 to currentVersion.
func (r *VersionRegistry) RegisterVersionedEvent(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	upgraderMap := make(map[int]EventUpgrader, len(upgraders))
	for _, u := range upgraders {
		if u.TargetVersion() != u.SourceVersion()+1 {
			return fmt.Errorf("upgrader must be sequential: got %d -> %d", u.SourceVersion(), u.TargetVersion())
		}
		upgraderMap[u.SourceVersion()] = u
	}

	for v := 1; v < currentVersion; v++ {
		if _, ok := upgraderMap[v]; !ok {
			return fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
	}

	if _, ok := versions[currentVersion]; !ok {
		return fmt.Errorf("versions map must include current version %d for event type %s", currentVersion, eventType)
	}

	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		Upgraders:      upgraderMap,
		Versions:       versions,
	}
	return nil
}

// RegisterSimpleEvent registers an event type that has only ever had
// one schema version.
func (r *VersionRegistry) RegisterSimpleEvent(eventType string, eventInstance shared.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: 1,
		Upgraders:      make(map[int]EventUpgrader),
		Versions:       map[int]shared.DomainEvent{1: eventInstance},
	}
}

// GetConfig returns the schema history for an event type.
func (r *VersionRegistry) GetConfig(eventType string) (*VersionedEventConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[eventType]
	return config, ok
}

// GetCurrentVersion returns the latest schema version for an event
// type.
func (r *VersionRegistry) GetCurrentVersion(eventType string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[eventType]
	if !ok {
		return 0, false
	}
	return config.CurrentVersion, true
}

// IsRegistered reports whether the event type is known.
func (r *VersionRegistry) IsRegistered(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.configs[eventType]
	return ok
}

// RegisteredTypes returns all registered event type names.
func (r *VersionRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.configs))
	for t := range r.configs {
		types = append(types, t)
	}
	return types
}

// UpgradePayload runs the upgrade chain from fromVersion up to the
// current version and returns the rewritten payload with its version.
// A payload already at or past the current version passes through
// untouched.
func (r *VersionRegistry) UpgradePayload(eventType string, payload []byte, fromVersion int) ([]byte, int, error) {
	r.mu.RLock()
	config, ok := r.configs[eventType]
	r.mu.RUnlock()

	if !ok {
		return nil, 0, fmt.Errorf("unknown event type: %s", eventType)
	}
	if fromVersion >= config.CurrentVersion {
		return payload, config.CurrentVersion, nil
	}

	current := payload
	for v := fromVersion; v < config.CurrentVersion; v++ {
		upgrader, ok := config.Upgraders[v]
		if !ok {
			return nil, 0, fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
		var err error
		if current, err = upgrader.Upgrade(current); err != nil {
			return nil, 0, fmt.Errorf("failed to upgrade from v%d to v%d: %w", v, v+1, err)
		}
	}

	return current, config.CurrentVersion, nil
}

// ExtractVersion reads the schema_version field from raw event JSON.
// Payloads predating the versioning scheme have no field and count as
// version 1, as does anything unparseable.
func ExtractVersion(payload []byte) int {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil || probe.SchemaVersion == 0 {
		return 1
	}
	return probe.SchemaVersion
}

// BaseEventUpgrader implements EventUpgrader around a map transform:
// the payload is unmarshalled, handed to the transform, stamped with
// the target version and marshalled back.
type BaseEventUpgrader struct {
	sourceVersion int
	targetVersion int
	transform     func(data map[string]any) (map[string]any, error)
}

// NewBaseEventUpgrader creates an upgrader for one version step.
func NewBaseEventUpgrader(source, target int, transform func(data map[string]any) (map[string]any, error)) *BaseEventUpgrader {
	return &BaseEventUpgrader{
		sourceVersion: source,
		targetVersion: target,
		transform:     transform,
	}
}

func (u *BaseEventUpgrader) SourceVersion() int { return u.sourceVersion }

func (u *BaseEventUpgrader) TargetVersion() int { return u.targetVersion }

// Upgrade applies the transform and stamps the new schema version.
func (u *BaseEventUpgrader) Upgrade(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	transformed, err := u.transform(data)
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	transformed["schema_version"] = u.targetVersion

	result, err := json.Marshal(transformed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transformed payload: %w", err)
	}
	return result, nil
}

var _ EventUpgrader = (*BaseEventUpgrader)(nil)
