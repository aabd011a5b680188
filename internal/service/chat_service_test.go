package service

import (
	"context"
	"testing"
)

type chatEnv struct {
	*testEnv
	chat ChatService
}

func newChatEnv() *chatEnv {
	env := newTestEnv()
	return &chatEnv{
		testEnv: env,
		chat:    NewChatService(newFakeChatRepo(), env.requestRepo, env.rideRepo),
	}
}

func TestChatOpensOnAccept(t *testing.T) {
	env := newChatEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	ride := env.postRide(t, driver, 2, 300)

	request, err := env.requests.CreateRequest(ctx, rider, ride.ID)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	// No chat before the driver accepts.
	_, err = env.chat.PostMessage(ctx, rider, request.ID, "hey, still leaving at 8:30?")
	if code := statusCode(t, err); code != 409 {
		t.Fatalf("post before accept status = %d, want 409", code)
	}

	accepted, err := env.requests.AcceptRequest(ctx, driver, request.ID)
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	if _, err := env.chat.PostMessage(ctx, rider, request.ID, "hey, still leaving at 8:30?"); err != nil {
		t.Fatalf("rider post: %v", err)
	}
	if _, err := env.chat.PostMessage(ctx, driver, request.ID, "yes, main gate"); err != nil {
		t.Fatalf("driver post: %v", err)
	}

	resp, err := env.chat.ListMessages(ctx, rider, request.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(resp.Messages))
	}
	if !resp.ChatEnabled {
		t.Error("chat should be enabled while accepted")
	}

	// Still open while ongoing.
	if _, err := env.requests.StartRide(ctx, driver, request.ID, *accepted.PIN); err != nil {
		t.Fatalf("StartRide: %v", err)
	}
	if _, err := env.chat.PostMessage(ctx, rider, request.ID, "on the way"); err != nil {
		t.Fatalf("post while ongoing: %v", err)
	}
}

func TestChatClosesOnCompletion(t *testing.T) {
	env := newChatEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	ride := env.postRide(t, driver, 2, 300)

	request, err := env.requests.CreateRequest(ctx, rider, ride.ID)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	accepted, err := env.requests.AcceptRequest(ctx, driver, request.ID)
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	if _, err := env.chat.PostMessage(ctx, rider, request.ID, "see you soon"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := env.requests.StartRide(ctx, driver, request.ID, *accepted.PIN); err != nil {
		t.Fatalf("StartRide: %v", err)
	}
	if _, err := env.requests.ReachedSafely(ctx, rider, request.ID); err != nil {
		t.Fatalf("ReachedSafely: %v", err)
	}

	_, err = env.chat.PostMessage(ctx, rider, request.ID, "thanks for the ride")
	if code := statusCode(t, err); code != 409 {
		t.Fatalf("post after completion status = %d, want 409", code)
	}

	// History stays readable.
	resp, err := env.chat.ListMessages(ctx, rider, request.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(resp.Messages))
	}
	if resp.ChatEnabled {
		t.Error("chat should be closed after completion")
	}
}

func TestChatParticipantsOnly(t *testing.T) {
	env := newChatEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	admin := env.addUser(t, testAdmin())
	ride := env.postRide(t, driver, 2, 300)

	request, err := env.requests.CreateRequest(ctx, rider, ride.ID)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if _, err := env.requests.AcceptRequest(ctx, driver, request.ID); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	stranger := testRider()
	stranger.Email = "stranger@rvce.edu.in"
	env.addUser(t, stranger)

	_, err = env.chat.PostMessage(ctx, stranger, request.ID, "can I join?")
	if code := statusCode(t, err); code != 403 {
		t.Fatalf("stranger post status = %d, want 403", code)
	}
	if _, err := env.chat.ListMessages(ctx, stranger, request.ID); err == nil {
		t.Error("expected a stranger's read to fail")
	}

	// Admins read for review but never post.
	if _, err := env.chat.ListMessages(ctx, admin, request.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := env.chat.PostMessage(ctx, admin, request.ID, "admin here"); err == nil {
		t.Error("expected an admin's post to fail")
	}
}
