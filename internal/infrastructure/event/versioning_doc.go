package event

/*
Event schema versioning
=======================

Events written to the outbox outlive the code that produced them. When a
schema changes, old rows must still deserialize, so each event carries a
schema_version field and the serializer runs registered upgraders before
decoding. Payloads without the field count as version 1.

Components:

  - EventUpgrader: rewrites a raw payload from version N to N+1.
    Upgraders chain; each one covers exactly one step.
  - VersionRegistry: holds the schema history and upgrade chain per
    event type, and validates the chain is gapless on registration.
  - VersionedSerializer: drop-in EventSerializer that upgrades old
    payloads transparently during Deserialize.
  - EventMigrator: batch-rewrites stored payloads, for example when
    draining a long outbox backlog after a schema change.

Evolving a schema, using the review-created event as the example. v1
had rating and comment; v2 adds verified_purchase; v3 renames comment
to body:

	var common CommonUpgraders

	err := serializer.RegisterVersioned(
		"ReviewCreated",
		3,
		map[int]shared.DomainEvent{
			1: &review.ReviewCreatedEventV1{},
			2: &review.ReviewCreatedEventV2{},
			3: &review.ReviewCreatedEvent{},
		},
		common.AddField(1, "verified_purchase", false),
		common.RenameField(2, "comment", "body"),
	)

CommonUpgraders covers field add/remove/rename and in-place value
transforms. Anything else gets a NewBaseEventUpgrader with a custom
transform over the decoded map.

Batch migration of stored rows:

	migrator := NewEventMigrator(serializer, logger)

	analysis, _ := migrator.AnalyzePayloads("ReviewCreated", payloads)
	// analysis.NeedsMigration tells you the batch size up front.

	result, err := migrator.MigratePayloads(ctx, "ReviewCreated", payloads)
	// Per-payload failures land in result.FailedPayloads; the batch
	// keeps going.

Rules when changing a schema:

 1. Add the new struct version and its upgrader in the same change.
 2. Deploy the upgrader before producing events at the new version.
 3. Upgraders must be deterministic and tolerate missing fields.
 4. Never rename an event type; routing keys on it. A new name is a
    new event type.
*/
