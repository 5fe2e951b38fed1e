package safe_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/edopt/chatbot/pkg/utils/safe"
	"github.com/m-mizutani/gt"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	c := &closer{}
	safe.Close(context.Background(), c)
	gt.Bool(t, c.closed).True()

	failing := &closer{err: errors.New("close failed")}
	safe.Close(context.Background(), failing, "resource", "db")
	gt.Bool(t, failing.closed).True()

	safe.Close(context.Background(), nil)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	safe.Write(context.Background(), &buf, []byte("ok"))
	gt.Value(t, buf.String()).Equal("ok")

	safe.Write(context.Background(), nil, []byte("ignored"))
}
