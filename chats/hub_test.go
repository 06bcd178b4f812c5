package chats

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "chat1",
	}

	hub.Register(client)

	data := []byte(`{"text":"hello test"}`)
	hub.Broadcast("chat1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.Unregister(client)
}

func TestHubBroadcastIsScopedToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	inRoom := &Client{Send: make(chan []byte, 10), Room: "chat1"}
	elsewhere := &Client{Send: make(chan []byte, 10), Room: "chat2"}
	hub.Register(inRoom)
	hub.Register(elsewhere)

	hub.Broadcast("chat1", []byte("only for chat1"))

	select {
	case <-inRoom.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case msg := <-elsewhere.Send:
		t.Fatalf("client in another room received %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
