package model

import "fmt"

// OpStatus is the terminal result of an operation, decoded from the `status`
// control frame's integer body.
type OpStatus struct {
	Code int // 0 means Ok; any other value means Failed(Code)
}

func (s OpStatus) Ok() bool { return s.Code == 0 }

func (s OpStatus) String() string {
	if s.Ok() {
		return "ok"
	}
	return fmt.Sprintf("failed(%d)", s.Code)
}
