package service

import "wayfarer/backend/internal/graph"

// Mutual is the messaging gate: two users may exchange messages only
// when each follows the other. Pure predicate over already-loaded users;
// existence checks are the caller's job.
func Mutual(a, b *graph.User) bool {
	return follows(a, b.ID) && follows(b, a.ID)
}

func follows(u *graph.User, id string) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}
