package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAppErrors(t *testing.T) {
	t.Run(`KindOf check`, func(t *testing.T) {
		require.Equal(t, KindNotFound, KindOf(NotFound("вакансия %v не найдена", "123")))
		require.Equal(t, KindConflict, KindOf(Conflict("дубль")))
		require.Equal(t, KindInternal, KindOf(errors.New("что-то пошло не так")))
		require.Equal(t, Kind(""), KindOf(nil))
	})

	t.Run(`wrapped error keeps kind`, func(t *testing.T) {
		err := errors.Wrap(InvalidState("вакансия уже закрыта"), "ошибка закрытия вакансии")
		require.True(t, Is(err, KindInvalidState))
		require.False(t, Is(err, KindBadRequest))
		require.Equal(t, "вакансия уже закрыта", PublicMessage(err))
	})

	t.Run(`message formatting`, func(t *testing.T) {
		require.Equal(t, "вакансия 42 не найдена", NotFound("вакансия %v не найдена", 42).Error())
		require.Equal(t, "100% готово", BadRequest("%d%% готово", 100).Error())
	})

	t.Run(`validation keeps text as is`, func(t *testing.T) {
		err := Validation(errors.New("доля 100% превышена"))
		require.Equal(t, KindBadRequest, KindOf(err))
		require.Equal(t, "доля 100% превышена", err.Error())
		require.Equal(t, "доля 100% превышена", PublicMessage(err))
	})

	t.Run(`internal hides cause`, func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Internal(cause, "ошибка получения вакансии")
		require.Equal(t, "ошибка получения вакансии", PublicMessage(err))
		require.True(t, errors.Is(err, cause))
	})
}
