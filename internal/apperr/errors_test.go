package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("buscando aluno: %w", NotFound("Aluno não encontrado"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("unique violation")
	err := &Error{Kind: KindConflict, Message: "duplicada", Err: cause}

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal", KindOf(nil).String())
}

func TestFieldErrors(t *testing.T) {
	fields := FieldErrors{}
	assert.True(t, fields.Empty())

	fields.Add("email", "O email já está sendo utilizado.")
	fields.Merge(FieldErrors{"email": {"outro"}, "nome": {"obrigatório"}})

	assert.Equal(t, []string{"O email já está sendo utilizado.", "outro"}, fields["email"])
	assert.Equal(t, []string{"obrigatório"}, fields["nome"])

	err := Invalid(fields)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "invalid_input: Dados inválidos [email, nome]", err.Error())
}
