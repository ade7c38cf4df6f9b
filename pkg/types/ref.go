package types

// Ref is the {id, name} pair frozen into snapshots.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
