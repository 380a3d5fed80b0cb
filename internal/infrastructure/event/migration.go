package event

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MigrationResult summarizes one batch migration run.
type MigrationResult struct {
	EventType      string
	TotalProcessed int
	Upgraded       int
	AlreadyCurrent int
	Failed         int
	FailedPayloads []FailedMigration
	StartedAt      time.Time
	CompletedAt    time.Time
	FromVersion    int
	ToVersion      int
}

// FailedMigration records a payload the upgrade chain rejected.
type FailedMigration struct {
	Payload []byte
	Error   string
	Version int
}

// Duration returns how long the migration run took.
func (r *MigrationResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// EventMigrator upgrades stored event payloads in bulk, for example
// when rewriting old outbox rows after a schema change.
type EventMigrator struct {
	serializer *VersionedSerializer
	logger     *zap.Logger
}

// NewEventMigrator creates a migrator over the given serializer's
// version registry.
func NewEventMigrator(serializer *VersionedSerializer, logger *zap.Logger) *EventMigrator {
	return &EventMigrator{
		serializer: serializer,
		logger:     logger,
	}
}

// MigratePayloads upgrades every payload in the batch to the current
// schema version. Failures are collected per payload rather than
// aborting the batch; cancellation stops the run early and returns the
// partial result.
func (m *EventMigrator) MigratePayloads(ctx context.Context, eventType string, payloads [][]byte) (*MigrationResult, error) {
	result := &MigrationResult{
		EventType:      eventType,
		StartedAt:      time.Now(),
		FailedPayloads: make([]FailedMigration, 0),
	}

	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	result.ToVersion = currentVersion

	for _, payload := range payloads {
		select {
		case <-ctx.Done():
			result.CompletedAt = time.Now()
			return result, ctx.Err()
		default:
		}

		result.TotalProcessed++
		version := ExtractVersion(payload)

		if result.FromVersion == 0 || version < result.FromVersion {
			result.FromVersion = version
		}

		if version >= currentVersion {
			result.AlreadyCurrent++
			continue
		}

		if _, _, err := m.serializer.UpgradePayloadOnly(eventType, payload); err != nil {
			result.Failed++
			result.FailedPayloads = append(result.FailedPayloads, FailedMigration{
				Payload: payload,
				Error:   err.Error(),
				Version: version,
			})
			continue
		}

		result.Upgraded++
	}

	result.CompletedAt = time.Now()
	return result, nil
}

// MigratePayload upgrades a single payload to the current version.
func (m *EventMigrator) MigratePayload(eventType string, payload []byte) ([]byte, int, error) {
	return m.serializer.UpgradePayloadOnly(eventType, payload)
}

// ValidateUpgradeChain verifies the upgrade chain for an event type has
// no gaps.
func (m *EventMigrator) ValidateUpgradeChain(eventType string) error {
	config, ok := m.serializer.GetVersionRegistry().GetConfig(eventType)
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	for v := 1; v < config.CurrentVersion; v++ {
		if _, ok := config.Upgraders[v]; !ok {
			return fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
	}
	return nil
}

// EventVersionAnalysis breaks down the version distribution of a
// payload set, to size a migration before running it.
type EventVersionAnalysis struct {
	EventType      string
	CurrentVersion int
	VersionCounts  map[int]int
	OldestVersion  int
	NewestVersion  int
	TotalEvents    int
	NeedsMigration int
	UpToDate       int
}

// AnalyzePayloads counts payloads per schema version without touching
// them.
func (m *EventMigrator) AnalyzePayloads(eventType string, payloads [][]byte) (*EventVersionAnalysis, error) {
	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	analysis := &EventVersionAnalysis{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		VersionCounts:  make(map[int]int),
		OldestVersion:  -1,
		NewestVersion:  -1,
		TotalEvents:    len(payloads),
	}

	for _, payload := range payloads {
		version := ExtractVersion(payload)
		analysis.VersionCounts[version]++

		if analysis.OldestVersion == -1 || version < analysis.OldestVersion {
			analysis.OldestVersion = version
		}
		if version > analysis.NewestVersion {
			analysis.NewestVersion = version
		}

		if version < currentVersion {
			analysis.NeedsMigration++
		} else {
			analysis.UpToDate++
		}
	}

	return analysis, nil
}

// CommonUpgraders builds upgraders for the usual schema changes, so
// one-off transforms only get written for the unusual ones.
type CommonUpgraders struct{}

// AddField adds a new field with a default value.
func (CommonUpgraders) AddField(sourceVersion int, fieldName string, defaultValue any) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		data[fieldName] = defaultValue
		return data, nil
	})
}

// RemoveField drops a field.
func (CommonUpgraders) RemoveField(sourceVersion int, fieldName string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		delete(data, fieldName)
		return data, nil
	})
}

// RenameField moves a value to a new key.
func (CommonUpgraders) RenameField(sourceVersion int, oldName, newName string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[oldName]; ok {
			data[newName] = val
			delete(data, oldName)
		}
		return data, nil
	})
}

// TransformField rewrites a field value in place.
func (CommonUpgraders) TransformField(sourceVersion int, fieldName string, transform func(any) any) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[fieldName]; ok {
			data[fieldName] = transform(val)
		}
		return data, nil
	})
}
