package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"hellomap/internal/domain"
	"hellomap/internal/repository"
)

type mockMessageServiceRepo struct {
	lastCreated domain.Message
	createCalls int
	createErr   error
	listData    []domain.Message
	listErr     error
	pingErr     error
}

func (m *mockMessageServiceRepo) Create(_ context.Context, message domain.Message) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.lastCreated = message
	return nil
}

func (m *mockMessageServiceRepo) List(_ context.Context) ([]domain.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listData, nil
}

func (m *mockMessageServiceRepo) Ping(_ context.Context) error {
	return m.pingErr
}

func TestMessageServiceCreate_AssignsIDAndDate(t *testing.T) {
	repo := &mockMessageServiceRepo{}
	svc := NewMessageService(zap.NewNop(), repo)

	draft := domain.MessageDraft{Name: "Muhammed", Message: "This app is so cool", Latitude: -90, Longitude: 180}
	msg, err := svc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.ID == "" || msg.Date.IsZero() {
		t.Fatalf("expected generated id and date, got %+v", msg)
	}
	if msg.Name != draft.Name || msg.Message != draft.Message || msg.Latitude != -90 || msg.Longitude != 180 {
		t.Fatalf("expected fields preserved, got %+v", msg)
	}
	if repo.lastCreated != msg {
		t.Fatalf("expected persisted record to equal returned record")
	}
}

func TestMessageServiceCreate_KeepsTextVerbatim(t *testing.T) {
	repo := &mockMessageServiceRepo{}
	svc := NewMessageService(zap.NewNop(), repo)

	msg, err := svc.Create(context.Background(), domain.MessageDraft{Name: " ab ", Message: "  hola\n"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.Name != " ab " || msg.Message != "  hola\n" {
		t.Fatalf("expected untouched text, got name=%q message=%q", msg.Name, msg.Message)
	}
}

func TestMessageServiceCreate_ValidationRejectsWithoutWrite(t *testing.T) {
	repo := &mockMessageServiceRepo{}
	svc := NewMessageService(zap.NewNop(), repo)

	cases := []domain.MessageDraft{
		{Name: "A", Message: "ok"},
		{Name: strings.Repeat("n", 101), Message: "ok"},
		{Name: "ab", Message: "o"},
		{Name: "ab", Message: strings.Repeat("m", 501)},
		{Name: "ab", Message: "ok", Latitude: 91},
		{Name: "ab", Message: "ok", Longitude: -180.5},
	}
	for i, c := range cases {
		_, err := svc.Create(context.Background(), c)
		if !errors.Is(err, domain.ErrInvalidMessage) {
			t.Fatalf("case %d expected ErrInvalidMessage, got %v", i, err)
		}
		if errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("case %d validation must not look like a store failure", i)
		}
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no writes, got %d", repo.createCalls)
	}
}

func TestMessageServiceCreate_StoreFailure(t *testing.T) {
	repo := &mockMessageServiceRepo{createErr: errors.New("connection refused")}
	svc := NewMessageService(zap.NewNop(), repo)

	_, err := svc.Create(context.Background(), domain.MessageDraft{Name: "ab", Message: "ok"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidMessage) {
		t.Fatalf("store failure must not look like a validation error")
	}
}

func TestMessageServiceCreate_UniqueIDs(t *testing.T) {
	repo := repository.NewMemoryMessageRepository()
	svc := NewMessageService(zap.NewNop(), repo)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		msg, err := svc.Create(context.Background(), domain.MessageDraft{Name: "ab", Message: fmt.Sprintf("m%d", i)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if seen[msg.ID] {
			t.Fatalf("duplicate id %s", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestMessageServiceList_ReturnsEveryCreatedRecord(t *testing.T) {
	repo := repository.NewMemoryMessageRepository()
	svc := NewMessageService(zap.NewNop(), repo)
	ctx := context.Background()

	created := map[string]domain.Message{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg, err := svc.Create(ctx, domain.MessageDraft{Name: "ab", Message: fmt.Sprintf("hola %d", i)})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
				return
			}
			mu.Lock()
			created[msg.ID] = msg
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	_, _ = svc.Create(ctx, domain.MessageDraft{Name: "A", Message: "ok"})

	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(first) != len(created) {
		t.Fatalf("expected %d messages, got %d", len(created), len(first))
	}
	for _, m := range first {
		if created[m.ID] != m {
			t.Fatalf("unexpected record %+v", m)
		}
	}

	second, _ := svc.List(ctx)
	if len(second) != len(first) {
		t.Fatalf("expected identical content across lists")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical content across lists")
		}
	}
}

func TestMessageServiceList_NilBecomesEmpty(t *testing.T) {
	svc := NewMessageService(zap.NewNop(), &mockMessageServiceRepo{})
	out, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty list, got %+v", out)
	}
}

func TestMessageServiceList_StoreFailure(t *testing.T) {
	svc := NewMessageService(zap.NewNop(), &mockMessageServiceRepo{listErr: errors.New("timeout")})
	if _, err := svc.List(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestMessageServicePing(t *testing.T) {
	svc := NewMessageService(zap.NewNop(), &mockMessageServiceRepo{pingErr: errors.New("down")})
	if err := svc.Ping(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestMessageService_NotConfigured(t *testing.T) {
	var svc *MessageService
	if _, err := svc.Create(context.Background(), domain.MessageDraft{}); !errors.Is(err, ErrMessageServiceNotConfigured) {
		t.Fatalf("expected ErrMessageServiceNotConfigured, got %v", err)
	}

	svc = NewMessageService(nil, nil)
	if _, err := svc.List(context.Background()); !errors.Is(err, ErrMessageServiceNotConfigured) {
		t.Fatalf("expected ErrMessageServiceNotConfigured, got %v", err)
	}
}
