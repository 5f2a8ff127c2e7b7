package model

// Status is the lifecycle state of a Matricula. Any state may move to any other;
// StatusAtiva is the initial one.
type Status string

const (
	StatusAtiva     Status = "ativa"
	StatusInativa   Status = "inativa"
	StatusConcluida Status = "concluida"
)

var Statuses = []Status{StatusAtiva, StatusInativa, StatusConcluida}

func (s Status) Valid() bool {
	switch s {
	case StatusAtiva, StatusInativa, StatusConcluida:
		return true
	}
	return false
}
