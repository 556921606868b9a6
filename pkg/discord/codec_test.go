package discord

import (
	"encoding/json"
	"testing"
)

func TestDecodeEnvelope(t *testing.T) {
	raw := `{"op":0,"t":"MESSAGE_CREATE","s":42,"d":{"content":"hi"}}`
	env, err := DecodeEnvelope([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Op != OpDispatch {
		t.Errorf("op: got %d, want %d", env.Op, OpDispatch)
	}
	if env.T != EventMessageCreate {
		t.Errorf("t: got %q, want %q", env.T, EventMessageCreate)
	}
	if env.S == nil || *env.S != 42 {
		t.Errorf("s: got %v, want 42", env.S)
	}
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("{nope")); err == nil {
		t.Error("expected error for malformed envelope")
	}
}

func TestEncodeIdentify(t *testing.T) {
	raw, err := EncodeIdentify("user-token")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if env.Op != OpIdentify {
		t.Errorf("op: got %d, want %d", env.Op, OpIdentify)
	}

	var payload struct {
		Token      string `json:"token"`
		Properties struct {
			OS string `json:"$os"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(env.D, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Token != "user-token" {
		t.Errorf("token: got %q", payload.Token)
	}
	if payload.Properties.OS == "" {
		t.Error("identify must carry connection properties")
	}
}

func TestEncodeHeartbeat(t *testing.T) {
	raw, err := EncodeHeartbeat(nil)
	if err != nil {
		t.Fatalf("encode nil: %v", err)
	}
	if string(raw) != `{"op":1,"d":null}` {
		t.Errorf("nil heartbeat: got %s", raw)
	}

	n := int64(617)
	raw, err = EncodeHeartbeat(&n)
	if err != nil {
		t.Fatalf("encode 617: %v", err)
	}
	if string(raw) != `{"op":1,"d":617}` {
		t.Errorf("heartbeat: got %s", raw)
	}
}

func TestSequence_LastObservedWins(t *testing.T) {
	var seq Sequence
	if seq.Last() != nil {
		t.Fatal("fresh sequence should report nil")
	}

	for _, n := range []int64{5, 7, 6} {
		seq.Observe(n)
	}
	last := seq.Last()
	if last == nil || *last != 6 {
		t.Errorf("last: got %v, want 6 (last observed, not maximum)", last)
	}
}
