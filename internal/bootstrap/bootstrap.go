// Package bootstrap restores the navigation state once the page is ready.
package bootstrap

import "github.com/artpar/doctester/internal/nav"

// Restorer rebuilds navigation state from a fragment.
type Restorer interface {
	Restore(hash string)
}

// Run restores the view named by the location fragment. It reports whether
// a restoration took place.
func Run(r Restorer, location *nav.Location) bool {
	if location == nil {
		return false
	}
	hash := location.Hash()
	if hash == "" {
		return false
	}
	r.Restore(hash)
	return true
}
