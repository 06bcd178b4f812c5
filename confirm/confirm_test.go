package confirm

import "testing"

func TestSignVerifyRoundTrip(t *testing.T) {
	payload := SignPayload("req-1", "slot-1")
	if !VerifyPayload(payload) {
		t.Fatal("freshly signed payload must verify")
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	payload := SignPayload("req-1", "slot-1")

	tampered := "req-2" + payload[5:]
	if VerifyPayload(tampered) {
		t.Fatal("tampered payload must not verify")
	}

	if VerifyPayload("no-signature-here") {
		t.Fatal("payload without signature must not verify")
	}
	if VerifyPayload("") {
		t.Fatal("empty payload must not verify")
	}
}
