package units

import "testing"

func TestPositionFromCMRoundTrip(t *testing.T) {
	cases := []float32{62.0, 62.01, 75.55, 92.5, 126.99, 127.0}
	for _, cm := range cases {
		pos, err := NewPositionFromCM(cm)
		if err != nil {
			t.Fatalf("NewPositionFromCM(%v) unexpected error: %v", cm, err)
		}
		want := float32(int32(cm*100)) / 100
		if got := pos.CM(); got != want {
			t.Errorf("NewPositionFromCM(%v).CM() = %v, want %v", cm, got, want)
		}
	}
}

func TestPositionFromCMOutOfRange(t *testing.T) {
	cases := []float32{0, 10, 61.99, 127.01, 200, -5}
	for _, cm := range cases {
		if _, err := NewPositionFromCM(cm); err == nil {
			t.Errorf("NewPositionFromCM(%v) expected out-of-range error, got nil", cm)
		}
	}
}

func TestPositionOrdering(t *testing.T) {
	low, err := NewPositionFromCM(70.0)
	if err != nil {
		t.Fatal(err)
	}
	high, err := NewPositionFromCM(90.0)
	if err != nil {
		t.Fatal(err)
	}

	if !low.Less(high) {
		t.Error("expected 70cm < 90cm")
	}
	if !high.Greater(low) {
		t.Error("expected 90cm > 70cm")
	}
	if low.Equal(high) {
		t.Error("70cm should not equal 90cm")
	}
}

func TestVelocityIsZero(t *testing.T) {
	if !NewVelocityFromTicks(0).IsZero() {
		t.Error("zero ticks should be IsZero")
	}
	if NewVelocityFromTicks(1).IsZero() {
		t.Error("non-zero ticks should not be IsZero")
	}
	if NewVelocityFromTicks(-1).IsZero() {
		t.Error("negative ticks should not be IsZero")
	}
}

func TestVelocityCMPerSecond(t *testing.T) {
	v := NewVelocityFromTicks(1500)
	if got, want := v.CMPerSecond(), float32(1.5); got != want {
		t.Errorf("CMPerSecond() = %v, want %v", got, want)
	}

	neg := NewVelocityFromTicks(-250)
	if got, want := neg.CMPerSecond(), float32(-0.25); got != want {
		t.Errorf("CMPerSecond() = %v, want %v", got, want)
	}
}

func TestDecodeFrame(t *testing.T) {
	// position ticks 500 (=67.00cm), velocity ticks -100
	raw := []byte{0xF4, 0x01, 0x9C, 0xFF}
	pos, vel, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame unexpected error: %v", err)
	}
	if pos.Ticks() != 500 {
		t.Errorf("position ticks = %d, want 500", pos.Ticks())
	}
	if vel.Ticks() != -100 {
		t.Errorf("velocity ticks = %d, want -100", vel.Ticks())
	}
}

func TestDecodeFrameBadLength(t *testing.T) {
	for _, raw := range [][]byte{nil, {1, 2, 3}, {1, 2, 3, 4, 5}} {
		if _, _, err := DecodeFrame(raw); err == nil {
			t.Errorf("DecodeFrame(%v) expected error, got nil", raw)
		}
	}
}

func TestDecodeFrameInvalidPosition(t *testing.T) {
	// ticks = 6501 (> max 6500), little endian 0x1965
	raw := []byte{0x65, 0x19, 0x00, 0x00}
	if _, _, err := DecodeFrame(raw); err == nil {
		t.Error("DecodeFrame with out-of-bound ticks expected error, got nil")
	}
}
