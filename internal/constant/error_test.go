package constant

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yockii/md2docx/pkg/docgen"
)

func TestGetErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ErrInvalidParams, http.StatusBadRequest},
		{ErrRecordNotFound, http.StatusNotFound},
		{ErrMarkdownTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("wrapped: %w", ErrInvalidColor), http.StatusBadRequest},
		{fmt.Errorf("%w: zip", docgen.ErrSerialize), http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, GetErrorCode(c.err), c.err.Error())
	}
}
