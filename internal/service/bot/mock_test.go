package bot

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/clock"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/config"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/messaging"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/model"
)

const (
	testChannelID   = "chan-reservations"
	testGuildID     = "guild-1"
	testBotID       = "bot-1"
	testAdminRoleID = "role-admin"
)

// MockReservationRepository はテスト用のインメモリリポジトリです
// 条件付き更新と紐付けの一意制約はストアと同じ振る舞いをします
type MockReservationRepository struct {
	mu           sync.Mutex
	reservations map[string]*model.Reservation
	updates      []statusUpdate
	getErr       error
	updateErr    error
	bindErr      error
	pingErr      error
}

type statusUpdate struct {
	ID     string
	Status model.Status
	Notes  string
}

func newMockReservationRepository(rs ...model.Reservation) *MockReservationRepository {
	m := &MockReservationRepository{reservations: make(map[string]*model.Reservation)}
	for _, r := range rs {
		r := r
		m.reservations[r.ID] = &r
	}
	return m
}

func (m *MockReservationRepository) get(id string) model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.reservations[id]
}

func (m *MockReservationRepository) GetReservations(ctx context.Context, status *model.Status) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}

	var result []model.Reservation
	for _, r := range m.reservations {
		if status != nil && r.Status != *status {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *MockReservationRepository) GetByMessageID(ctx context.Context, messageID string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.MessageID == messageID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id string, status model.Status, adminNotes string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return false, m.updateErr
	}
	r, ok := m.reservations[id]
	if !ok || r.Status != model.StatusPending {
		return false, nil
	}
	r.Status = status
	r.AdminNotes = adminNotes
	m.updates = append(m.updates, statusUpdate{ID: id, Status: status, Notes: adminNotes})
	return true, nil
}

func (m *MockReservationRepository) BindMessage(ctx context.Context, id, channelID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bindErr != nil {
		return m.bindErr
	}
	r, ok := m.reservations[id]
	if !ok {
		return fmt.Errorf("%w: reservation %s does not exist", model.ErrStore, id)
	}
	if r.MessageID != "" {
		return fmt.Errorf("reservation %s: %w", id, model.ErrAlreadyBound)
	}
	r.MessageID = messageID
	r.ChannelID = channelID
	return nil
}

func (m *MockReservationRepository) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *MockReservationRepository) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

// MockGameRepository はテスト用のモックリポジトリです
type MockGameRepository struct {
	games map[string]*model.Game
}

func (m *MockGameRepository) GetByID(ctx context.Context, gameID string) (*model.Game, error) {
	return m.games[gameID], nil
}

// MockUserRepository はテスト用のモックリポジトリです
type MockUserRepository struct {
	users map[string]*model.User
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return m.users[userID], nil
}

type reactionCall struct {
	MessageID string
	Emoji     string
	UserID    string
}

// MockGateway は送受信を記録するテスト用のゲートウェイです
type MockGateway struct {
	mu       sync.Mutex
	nextID   int
	messages map[string]*messaging.Message
	members  map[string]*messaging.Member
	sent     []*messaging.Message
	edits    []messaging.Embed
	added    []reactionCall
	removed  []reactionCall
	deleted  chan string

	sendErr  error
	fetchErr error
	synced   int
}

func newMockGateway() *MockGateway {
	return &MockGateway{
		messages: make(map[string]*messaging.Message),
		members:  make(map[string]*messaging.Member),
		deleted:  make(chan string, 10),
	}
}

func (g *MockGateway) SendEmbed(ctx context.Context, channelID string, embed messaging.Embed) (*messaging.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return nil, g.sendErr
	}
	g.nextID++
	msg := &messaging.Message{
		ID:        fmt.Sprintf("msg-%d", g.nextID),
		ChannelID: channelID,
		AuthorID:  testBotID,
		Embeds:    []messaging.Embed{embed},
	}
	g.messages[msg.ID] = msg
	g.sent = append(g.sent, msg)
	return msg, nil
}

func (g *MockGateway) EditEmbed(ctx context.Context, channelID, messageID string, embed messaging.Embed) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	msg, ok := g.messages[messageID]
	if !ok {
		return fmt.Errorf("%w: unknown message %s", model.ErrGateway, messageID)
	}
	msg.Embeds = []messaging.Embed{embed}
	g.edits = append(g.edits, embed)
	return nil
}

func (g *MockGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	g.mu.Lock()
	delete(g.messages, messageID)
	g.mu.Unlock()
	g.deleted <- messageID
	return nil
}

func (g *MockGateway) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.added = append(g.added, reactionCall{MessageID: messageID, Emoji: emoji})
	return nil
}

func (g *MockGateway) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removed = append(g.removed, reactionCall{MessageID: messageID, Emoji: emoji, UserID: userID})
	return nil
}

func (g *MockGateway) FetchMessage(ctx context.Context, channelID, messageID string) (*messaging.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	msg, ok := g.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown message %s", model.ErrGateway, messageID)
	}
	copied := *msg
	copied.Embeds = append([]messaging.Embed(nil), msg.Embeds...)
	for i := range copied.Embeds {
		copied.Embeds[i].Fields = append([]messaging.Field(nil), msg.Embeds[i].Fields...)
	}
	return &copied, nil
}

func (g *MockGateway) FetchMember(ctx context.Context, guildID, userID string) (*messaging.Member, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[userID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown member %s", model.ErrGateway, userID)
	}
	return m, nil
}

func (g *MockGateway) SyncCommands(ctx context.Context) (int, error) {
	g.synced++
	return 8, nil
}

func (g *MockGateway) BotUserID() string      { return testBotID }
func (g *MockGateway) Latency() time.Duration { return 42 * time.Millisecond }
func (g *MockGateway) Ready() bool            { return true }

// postMessage はボット以外が投稿したメッセージを登録します
func (g *MockGateway) postMessage(id, authorID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages[id] = &messaging.Message{ID: id, ChannelID: testChannelID, AuthorID: authorID}
}

func (g *MockGateway) message(id string) *messaging.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.messages[id]
}

func (g *MockGateway) sentCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

func (g *MockGateway) addedReactions(messageID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var emojis []string
	for _, c := range g.added {
		if c.MessageID == messageID {
			emojis = append(emojis, c.Emoji)
		}
	}
	return emojis
}

// MockOwnerNotifier は通知内容を記録します
type MockOwnerNotifier struct {
	mu       sync.Mutex
	statuses []model.Status
	reasons  []string
}

func (m *MockOwnerNotifier) NotifyStatusChange(ctx context.Context, r *model.Reservation, status model.Status, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	m.reasons = append(m.reasons, reason)
	return nil
}

var testNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.Local)

func testConfig() *config.Config {
	return &config.Config{
		Discord: config.DiscordConfig{
			ChannelID:   testChannelID,
			GuildID:     testGuildID,
			AdminRoleID: testAdminRoleID,
			Prefix:      "!",
		},
		Schedule: config.ScheduleConfig{
			NewReservationInterval: 10 * time.Second,
			ReminderInterval:       time.Hour,
			DailySummaryInterval:   24 * time.Hour,
			SendDelay:              0,
			ReminderAge:            24 * time.Hour,
		},
	}
}

type testEnv struct {
	svc     *Service
	repo    *MockReservationRepository
	gateway *MockGateway
	owner   *MockOwnerNotifier
	clock   *clock.FakeClock
}

func newTestEnv(rs ...model.Reservation) *testEnv {
	env := &testEnv{
		repo:    newMockReservationRepository(rs...),
		gateway: newMockGateway(),
		owner:   &MockOwnerNotifier{},
		clock:   clock.Fake(testNow),
	}
	env.gateway.members["admin-1"] = &messaging.Member{UserID: "admin-1", DisplayName: "Alice", RoleIDs: []string{testAdminRoleID}}
	env.gateway.members["owner-1"] = &messaging.Member{UserID: "owner-1", DisplayName: "Owner", Administrator: true}
	env.gateway.members["member-1"] = &messaging.Member{UserID: "member-1", DisplayName: "Bob", RoleIDs: []string{"role-member"}}

	games := &MockGameRepository{games: map[string]*model.Game{
		"game-1": {ID: "game-1", Name: "Catan", Players: "3-4", Duration: "90 min", Age: "10+"},
	}}
	users := &MockUserRepository{users: map[string]*model.User{
		"user-1": {ID: "user-1", Username: "camille"},
	}}
	env.svc = NewService(testConfig(), env.repo, games, users, env.gateway, env.owner, env.clock)
	return env
}

func pendingReservation(id string, start time.Time) model.Reservation {
	return model.Reservation{
		ID:        id,
		Status:    model.StatusPending,
		StartDate: start,
		EndDate:   start.Add(2 * time.Hour),
		UserName:  "camille",
		GameID:    "game-1",
		UserID:    "user-1",
	}
}
