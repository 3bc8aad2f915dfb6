package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not fatal",
			err:  nil,
			want: false,
		},
		{
			name: "resolution error is fatal",
			err:  NewTemplateResolutionError("certificate", []string{"uploads/x.docx"}),
			want: true,
		},
		{
			name: "render engine error is fatal",
			err:  NewRenderEngineError(fmt.Errorf("chrome exited")),
			want: true,
		},
		{
			name: "repair warning is not fatal",
			err:  NewTemplateRepairWarning("2 orphan delimiters dropped"),
			want: false,
		},
		{
			name: "callback warning is not fatal",
			err:  NewCallbackDeliveryWarning("http://cb", fmt.Errorf("refused")),
			want: false,
		},
		{
			name: "wrapped standard error keeps fatality",
			err:  fmt.Errorf("stage failed: %w", NewTemplateRenderError("unclosed tag", []string{"name"})),
			want: true,
		},
		{
			name: "foreign error is treated as fatal",
			err:  fmt.Errorf("something broke"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeTemplateRenderFailed, CodeOf(NewTemplateRenderError("bad", nil)))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), CodeOf(fmt.Errorf("plain")))

	wrapped := fmt.Errorf("outer: %w", NewRenderEngineError(fmt.Errorf("launch")))
	assert.Equal(t, ErrCodeRenderEngineFailed, CodeOf(wrapped))
}

func TestTemplateRenderErrorMetadata(t *testing.T) {
	err := NewTemplateRenderError("unclosed control block", []string{"name", "startDate"})
	assert.Equal(t, []string{"name", "startDate"}, err.Metadata["placeholders"])
	assert.Contains(t, err.Error(), "TEMPLATE_RENDER_FAILED")
}
