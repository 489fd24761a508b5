package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/namepage/namepage/models"
)

// Store keeps every record kind in process memory. It is meant for single
// instance deployments and tests; state is lost on restart.
type Store struct {
	sync.Mutex
	nextID   uint
	messages []models.Message
	mutes    map[string][]string
	limits   map[string]models.RateLimit
	owners   map[string]string
	payouts  map[string]models.Payout
	settings map[string]models.PageSettings
	offers   []models.Offer
	Clock    func() time.Time
}

func New() *Store {
	return &Store{
		nextID:   1,
		mutes:    make(map[string][]string),
		limits:   make(map[string]models.RateLimit),
		owners:   make(map[string]string),
		payouts:  make(map[string]models.Payout),
		settings: make(map[string]models.PageSettings),
		Clock:    time.Now,
	}
}

func (s *Store) CreateMessage(msg *models.Message) error {
	s.Lock()
	defer s.Unlock()

	msg.ID = s.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.Clock()
	}
	msg.UpdatedAt = msg.CreatedAt
	s.nextID++
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *Store) MessagesFor(target string, includeHidden bool) ([]models.Message, error) {
	s.Lock()
	defer s.Unlock()

	list := make([]models.Message, 0)
	for _, msg := range s.messages {
		if msg.Target == target && (includeHidden || !msg.Hidden) {
			list = append(list, msg)
		}
	}
	return list, nil
}

func (s *Store) PagedMessages(target string, page, limit int) ([]models.Message, int, int, error) {
	all, _ := s.MessagesFor(target, true)
	// newest id first
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ID > all[j].ID
	})

	if limit < 1 {
		limit = 1
	}
	total := len(all)
	pages := (total + limit - 1) / limit
	if page < 1 {
		page = 1
	}

	from := (page - 1) * limit
	if from >= total {
		return make([]models.Message, 0), total, pages, nil
	}
	to := from + limit
	if to > total {
		to = total
	}
	return all[from:to], total, pages, nil
}

func (s *Store) FindMessage(id uint) (*models.Message, error) {
	s.Lock()
	defer s.Unlock()

	for _, msg := range s.messages {
		if msg.ID == id {
			found := msg
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) SetMessageHidden(id uint, hidden bool) error {
	s.Lock()
	defer s.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Hidden = hidden
			s.messages[i].UpdatedAt = s.Clock()
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *Store) Mute(target, address string) error {
	s.Lock()
	defer s.Unlock()

	for _, muted := range s.mutes[target] {
		if muted == address {
			return nil
		}
	}
	s.mutes[target] = append(s.mutes[target], address)
	return nil
}

func (s *Store) Unmute(target, address string) error {
	s.Lock()
	defer s.Unlock()

	kept := make([]string, 0)
	for _, muted := range s.mutes[target] {
		if muted != address {
			kept = append(kept, muted)
		}
	}
	s.mutes[target] = kept
	return nil
}

func (s *Store) MutedSenders(target string) ([]string, error) {
	s.Lock()
	defer s.Unlock()

	return append(make([]string, 0), s.mutes[target]...), nil
}
