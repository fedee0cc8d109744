package resource

import "fmt"

type Kind int

const (
	Global Kind = iota
	Queue
	Operation
	Log
)

func (k Kind) String() string {
	return [...]string{
		"global",
		"queue",
		"op",
		"log",
	}[k]
}

func kindString(s string) (Kind, error) {
	for k := Global; k <= Log; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind: %s", s)
}
