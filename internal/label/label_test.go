package label

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestPayloadRoundTrip(t *testing.T) {
	tr := NewTracker("")

	payload := tr.Payload("TR123")

	if payload != "https://chamalog.com/rastrear/TR123" {
		t.Fatalf("unexpected payload %q", payload)
	}

	code, err := tr.CodeFromPayload(payload)

	if err != nil || code != "TR123" {
		t.Fatalf("expected TR123, got %q (%v)", code, err)
	}
}

func TestCodeFromPayloadVariants(t *testing.T) {
	tr := NewTracker("https://track.example.com/rastrear/")

	ok := map[string]string{
		"TR123":                                 "TR123",
		" tr123 ":                               "TR123",
		"https://chamalog.com/rastrear/TR9":     "TR9",
		"http://localhost:3000/rastrear/TR77/":  "TR77",
		"https://track.example.com/rastrear/A1": "A1",
	}

	for in, want := range ok {
		got, err := tr.CodeFromPayload(in)
		if err != nil || got != want {
			t.Fatalf("CodeFromPayload(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	for _, bad := range []string{"", "   ", "https://chamalog.com/other/TR1", "hello world", "https://chamalog.com/"} {
		if _, err := tr.CodeFromPayload(bad); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload for %q, got %v", bad, err)
		}
	}
}

func TestQRCodeEncodeDecode(t *testing.T) {
	payload := NewTracker("").Payload("TR123")

	png, err := QRCodePNG(payload, 256)

	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeQRCode(png)

	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got != payload {
		t.Fatalf("expected %q, got %q", payload, got)
	}
}

func TestDecodeQRCodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeQRCode([]byte("not an image")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(NewTracker(""))

	pdf, err := r.Render(Data{
		Code:         "TR123",
		Recipient:    "João da Silva",
		Address:      "Rua das Flores, 123, São Paulo - SP",
		StoreName:    "Loja Centro",
		StoreAddress: "Av. Paulista, 1000",
		IssuedAt:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}
