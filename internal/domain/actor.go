package domain

// SystemActor is the identity stamped on mutations when no authenticated
// actor is available.
const SystemActor = "system"
