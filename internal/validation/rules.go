package validation

import (
	"strings"
	"time"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/model"
)

// Messages shared by the per-entity validators.
const (
	MsgEmailTaken    = "O email já está sendo utilizado."
	MsgTituloTaken   = "O titulo já está sendo utilizado."
	MsgDateNotPast   = "O campo data_nascimento deve ser uma data anterior a hoje."
	MsgInvalidDate   = "O campo %s não é uma data válida."
	MsgAlunoMissing  = "O aluno_id selecionado é inválido."
	MsgAreaMissing   = "O area_curso_id selecionado é inválido."
	MsgStatusInvalid = "O campo status selecionado é inválido."
)

// Today is the current calendar day in UTC. Tests replace it.
var Today = func() model.Date {
	return model.DateOf(time.Now().UTC())
}

// BeforeToday reports whether d is strictly before Today.
func BeforeToday(d model.Date) bool {
	return d.Before(Today())
}

// Trim trims a required string field in place.
func Trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// TrimOptional trims s and turns a blank value into nil.
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// timestampLayouts are accepted for data_matricula.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	model.DateLayout,
}

// ParseTimestamp parses a data_matricula value and returns it in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
