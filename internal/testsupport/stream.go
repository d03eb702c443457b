package testsupport

import (
	"bytes"
	"testing"

	"buildstatus/internal/protocol"
)

// EncodeStream returns a complete status stream holding msgs.
func EncodeStream(t testing.TB, msgs ...protocol.Message) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	for _, msg := range msgs {
		if err := w.Write(msg); err != nil {
			t.Fatalf("Write %s: %v", msg.Kind(), err)
		}
	}
	return buf.Bytes()
}
