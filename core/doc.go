// Package core defines the shared data model and collaborator contracts for
// the mindloop event-orchestration core: the closed inbound/outbound event
// variants, Room and Memory entities, transient Intent classifications,
// ActionDescriptor capability records and the narrow interfaces through which
// external collaborators (platform clients, similarity indexes, intent
// extractors) are consumed.
package core
