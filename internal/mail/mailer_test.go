package mail

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSendAsync_Success(t *testing.T) {
	done := SendAsync(nil, "ada@example.com", func(ctx context.Context) error {
		return nil
	})
	select {
	case st := <-done:
		if st.To != "ada@example.com" {
			t.Errorf("To = %q", st.To)
		}
		if st.Err != nil {
			t.Errorf("Err = %v", st.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery status")
	}
}

func TestSendAsync_Failure(t *testing.T) {
	sendErr := errors.New("connection refused")
	done := SendAsync(nil, "ada@example.com", func(ctx context.Context) error {
		return sendErr
	})
	select {
	case st := <-done:
		if !errors.Is(st.Err, sendErr) {
			t.Errorf("Err = %v, want %v", st.Err, sendErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery status")
	}
}

func TestSendAsync_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	start := time.Now()
	done := SendAsync(nil, "ada@example.com", func(ctx context.Context) error {
		<-release
		return nil
	})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("SendAsync blocked for %v", elapsed)
	}
	close(release)
	<-done
}

func TestSMTPMailer_UnconfiguredSkips(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{BaseURL: "http://localhost:3000"}, nil)
	if err := m.SendVerification(context.Background(), "ada@example.com", "Ada", "tok"); err != nil {
		t.Errorf("unconfigured SendVerification: %v", err)
	}
	if err := m.SendPasswordReset(context.Background(), "ada@example.com", "Ada", "tok"); err != nil {
		t.Errorf("unconfigured SendPasswordReset: %v", err)
	}
}

func TestHTMLEscape(t *testing.T) {
	got := htmlEscape(`<b>Ada & "Friends"</b>`)
	want := "&lt;b&gt;Ada &amp; &quot;Friends&quot;&lt;/b&gt;"
	if got != want {
		t.Errorf("htmlEscape = %q, want %q", got, want)
	}
}
