package lifecycle

import "fmt"

// Actor is the role requesting a transition.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorStaff    Actor = "staff"
	ActorManager  Actor = "manager"
)

func (a Actor) Valid() bool {
	switch a {
	case ActorCustomer, ActorStaff, ActorManager:
		return true
	}
	return false
}

// ParseActor decodes the role carried on API requests.
func ParseActor(s string) (Actor, error) {
	a := Actor(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown actor role %q", s)
	}
	return a, nil
}
