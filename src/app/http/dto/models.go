package dto

// WriteResult acknowledges an upsert or a delete. Deletes always succeed:
// the store does not distinguish "not found" from "deleted".
type WriteResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
