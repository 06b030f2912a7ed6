package repository

import (
	"sort"
	"sync"

	"parking-api/models"
)

// MemoryStore 純記憶體版的 Store，用於測試與本機開發。
// 個別操作以互斥鎖保護，InTransaction 以另一把鎖讓交易彼此序列化；
// 不支援回滾，呼叫端必須把所有驗證放在第一次寫入之前。
type MemoryStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users     map[int]*models.User
	clients   map[int]*models.Client
	vacancies map[int]*models.Vacancy
	sessions  map[int]*models.ParkingSession

	nextUserID    int
	nextClientID  int
	nextVacancyID int
	nextSessionID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int]*models.User),
		clients:       make(map[int]*models.Client),
		vacancies:     make(map[int]*models.Vacancy),
		sessions:      make(map[int]*models.ParkingSession),
		nextUserID:    1,
		nextClientID:  1,
		nextVacancyID: 1,
		nextSessionID: 1,
	}
}

func (s *MemoryStore) Users() UserStore        { return &memUserStore{s: s} }
func (s *MemoryStore) Clients() ClientStore    { return &memClientStore{s: s} }
func (s *MemoryStore) Vacancies() VacancyStore { return &memVacancyStore{s: s} }
func (s *MemoryStore) Sessions() SessionStore  { return &memSessionStore{s: s} }

func (s *MemoryStore) InTransaction(fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

// --- users ---

type memUserStore struct {
	s *MemoryStore
}

func (m *memUserStore) Insert(user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, u := range m.s.users {
		if u.Username == user.Username {
			return ErrDuplicate
		}
	}
	user.UserID = m.s.nextUserID
	m.s.nextUserID++
	cp := *user
	m.s.users[user.UserID] = &cp
	return nil
}

func (m *memUserStore) FindByID(id int) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) FindByUsername(username string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, u := range m.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUserStore) FindAll() ([]models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	users := make([]models.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (m *memUserStore) UpdatePassword(id int, hashedPassword string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hashedPassword
	return nil
}

// --- clients ---

type memClientStore struct {
	s *MemoryStore
}

func (m *memClientStore) Insert(client *models.Client) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, c := range m.s.clients {
		if c.CPF == client.CPF {
			return ErrDuplicate
		}
	}
	client.ClientID = m.s.nextClientID
	m.s.nextClientID++
	cp := *client
	m.s.clients[client.ClientID] = &cp
	return nil
}

func (m *memClientStore) FindByID(id int) (*models.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	c, ok := m.s.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memClientStore) FindByCPF(cpf string) (*models.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, c := range m.s.clients {
		if c.CPF == cpf {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memClientStore) FindByUserID(userID int) (*models.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, c := range m.s.clients {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memClientStore) FindAll(page, size int) ([]models.Client, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	all := make([]models.Client, 0, len(m.s.clients))
	for _, c := range m.s.clients {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ClientID < all[j].ClientID })

	total := int64(len(all))
	start := page * size
	if start >= len(all) {
		return []models.Client{}, total, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// --- vacancies ---

type memVacancyStore struct {
	s *MemoryStore
}

func (m *memVacancyStore) Insert(vacancy *models.Vacancy) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, v := range m.s.vacancies {
		if v.Code == vacancy.Code {
			return ErrDuplicate
		}
	}
	if vacancy.Status == "" {
		vacancy.Status = models.VacancyFree
	}
	vacancy.VacancyID = m.s.nextVacancyID
	m.s.nextVacancyID++
	cp := *vacancy
	m.s.vacancies[vacancy.VacancyID] = &cp
	return nil
}

func (m *memVacancyStore) FindByCode(code string) (*models.Vacancy, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, v := range m.s.vacancies {
		if v.Code == code {
			cp := *v
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// AcquireFree 在同一把鎖內完成挑選與翻轉，兩個並發呼叫不可能拿到同一個車位
func (m *memVacancyStore) AcquireFree() (*models.Vacancy, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var free []*models.Vacancy
	for _, v := range m.s.vacancies {
		if v.Status == models.VacancyFree {
			free = append(free, v)
		}
	}
	if len(free) == 0 {
		return nil, ErrNoFreeVacancy
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Code < free[j].Code })

	free[0].Status = models.VacancyBusy
	cp := *free[0]
	return &cp, nil
}

func (m *memVacancyStore) Release(vacancyID int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	v, ok := m.s.vacancies[vacancyID]
	if !ok || v.Status != models.VacancyBusy {
		return ErrVacancyNotBusy
	}
	v.Status = models.VacancyFree
	return nil
}

func (m *memVacancyStore) CountByStatus(status string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var count int64
	for _, v := range m.s.vacancies {
		if v.Status == status {
			count++
		}
	}
	return count, nil
}

// --- parking sessions ---

type memSessionStore struct {
	s *MemoryStore
}

// attach 填入關聯的客戶與車位，模擬 gorm 的 Preload
func (m *memSessionStore) attach(session *models.ParkingSession) {
	if c, ok := m.s.clients[session.ClientID]; ok {
		session.Client = *c
	}
	if v, ok := m.s.vacancies[session.VacancyID]; ok {
		session.Vacancy = *v
	}
}

func (m *memSessionStore) InsertOpen(session *models.ParkingSession) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.sessions {
		if existing.Receipt == session.Receipt {
			return ErrDuplicate
		}
	}
	session.SessionID = m.s.nextSessionID
	m.s.nextSessionID++
	cp := *session
	m.s.sessions[session.SessionID] = &cp
	m.attach(session)
	return nil
}

func (m *memSessionStore) FindOpenByReceipt(receipt string) (*models.ParkingSession, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, session := range m.s.sessions {
		if session.Receipt == receipt && session.IsOpen() {
			cp := *session
			m.attach(&cp)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memSessionStore) Close(session *models.ParkingSession) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.sessions[session.SessionID]
	if !ok || !stored.IsOpen() {
		return ErrNotFound
	}
	stored.DepartureDate = session.DepartureDate
	stored.Value = session.Value
	stored.Discount = session.Discount
	return nil
}

func (m *memSessionStore) CountClosedForClient(clientID int) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var count int64
	for _, session := range m.s.sessions {
		if session.ClientID == clientID && !session.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (m *memSessionStore) FindAllByClientCPF(cpf string, page, size int) ([]models.ParkingSession, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var all []models.ParkingSession
	for _, session := range m.s.sessions {
		if c, ok := m.s.clients[session.ClientID]; ok && c.CPF == cpf {
			cp := *session
			m.attach(&cp)
			all = append(all, cp)
		}
	}
	return paginateSessions(all, page, size)
}

func (m *memSessionStore) FindAllByUserID(userID, page, size int) ([]models.ParkingSession, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var all []models.ParkingSession
	for _, session := range m.s.sessions {
		if c, ok := m.s.clients[session.ClientID]; ok && c.UserID == userID {
			cp := *session
			m.attach(&cp)
			all = append(all, cp)
		}
	}
	return paginateSessions(all, page, size)
}

func paginateSessions(all []models.ParkingSession, page, size int) ([]models.ParkingSession, int64, error) {
	sort.Slice(all, func(i, j int) bool { return all[i].EntryDate.Before(all[j].EntryDate) })

	total := int64(len(all))
	start := page * size
	if start >= len(all) {
		return []models.ParkingSession{}, total, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
