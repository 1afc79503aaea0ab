package core

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.core")
	defer teardown()
	//
	err := Error(EMISSING, "no font asset for %q", "Sans")
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, `no font asset for "Sans"`, UserMessage(err))
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestWrapError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textmesh.core")
	defer teardown()
	//
	inner := errors.New("unexpected EOF")
	err := WrapError(inner, EFORMAT, "cannot parse font")
	assert.True(t, errors.Is(err, inner))
	wrapped := fmt.Errorf("loading: %w", err)
	assert.Equal(t, EFORMAT, Code(wrapped))
	var buf bytes.Buffer
	ReportError(&buf, wrapped)
	assert.Equal(t, "[124] cannot parse font\n", buf.String())
	assert.Equal(t, "cannot parse font", UserMessage(wrapped))
}
