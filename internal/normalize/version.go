package normalize

// RulesetVersion identifies the active normalization ruleset. Any change
// to the header synonym table, identifier priority rules, field
// vocabularies, or the classifier vocabulary must bump this value so
// downstream consumers can detect rule drift between runs. It is stamped
// on import runs and sent to the remote inference backend.
const RulesetVersion = "v3"
