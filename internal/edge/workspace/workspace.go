// Package workspace - вкладочное рабочее пространство AI-чата на edge.
// Workspace живет в памяти процесса и привязан к сессии; он никогда
// не сериализуется - после рестарта вкладки восстанавливаются с нуля.
package workspace

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// fallbackTabTitle - заголовок новой несохраненной вкладки.
	fallbackTabTitle = "New Chat"
	// pendingTabTitle - заглушка для вкладки существующего чата, пока
	// настоящий заголовок не загружен с backend'а.
	pendingTabTitle = "Chat"
)

// Message - сообщение внутри вкладки.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Reasoning string    `json:"reasoning,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Tab - одна вкладка чата. ChatID == nil означает несохраненный чат:
// первый анализ из такой вкладки создает чат на backend'е.
type Tab struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	ChatID   *string   `json:"chat_id"`
	Messages []Message `json:"messages"`
	Unread   bool      `json:"unread"`

	// gen растет при каждом создании вкладки; ответы анализа, снятые
	// со старого поколения, отбрасываются
	gen uint64
}

// Workspace - набор вкладок одной сессии. Все методы потокобезопасны.
type Workspace struct {
	mu             sync.RWMutex
	tabs           []*Tab
	activeID       string
	nextGen        uint64
	refreshTrigger uint64
}

func New() *Workspace {
	return &Workspace{}
}

// Snapshot - копия состояния для отдачи клиенту.
type Snapshot struct {
	Tabs           []Tab  `json:"tabs"`
	ActiveTabID    string `json:"active_tab_id"`
	RefreshTrigger uint64 `json:"refresh_trigger"`
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	tabs := make([]Tab, 0, len(w.tabs))
	for _, t := range w.tabs {
		copied := *t
		copied.Messages = append([]Message(nil), t.Messages...)
		tabs = append(tabs, copied)
	}
	return Snapshot{
		Tabs:           tabs,
		ActiveTabID:    w.activeID,
		RefreshTrigger: w.refreshTrigger,
	}
}

// RefreshTrigger - монотонный счетчик; его рост сигнализирует клиенту,
// что список чатов нужно перезапросить.
func (w *Workspace) RefreshTrigger() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.refreshTrigger
}

// OpenChat открывает вкладку. Непустой chatID дедуплицируется: если чат
// уже открыт, его вкладка просто активируется. Иначе создается новая
// вкладка с запасным заголовком; настоящий заголовок вызывающий код
// подставляет асинхронно через SetTitle.
func (w *Workspace) OpenChat(chatID *string) *Tab {
	w.mu.Lock()
	defer w.mu.Unlock()

	if chatID != nil && *chatID != "" {
		for _, t := range w.tabs {
			if t.ChatID != nil && *t.ChatID == *chatID {
				w.activeID = t.ID
				t.Unread = false
				copied := *t
				return &copied
			}
		}
	}

	w.nextGen++
	tab := &Tab{
		ID:    uuid.NewString(),
		Title: fallbackTabTitle,
		gen:   w.nextGen,
	}
	if chatID != nil && *chatID != "" {
		id := *chatID
		tab.ChatID = &id
		tab.Title = pendingTabTitle
	}

	w.tabs = append(w.tabs, tab)
	w.activeID = tab.ID

	copied := *tab
	return &copied
}

// SetTitle подставляет разрешенный заголовок вкладки. Если загрузка
// заголовка упала, вызывающий код просто не вызывает SetTitle и вкладка
// остается с запасным.
func (w *Workspace) SetTitle(tabID, title string) {
	if title == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if t := w.findTab(tabID); t != nil {
		t.Title = title
	}
}

// CloseTab закрывает вкладку. Если закрыта активная, активной становится
// предыдущая по порядку списка; закрыли первую - новая первая; вкладок
// не осталось - активной нет.
func (w *Workspace) CloseTab(tabID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := -1
	for i, t := range w.tabs {
		if t.ID == tabID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	w.tabs = append(w.tabs[:idx], w.tabs[idx+1:]...)

	if w.activeID != tabID {
		return
	}
	switch {
	case len(w.tabs) == 0:
		w.activeID = ""
	case idx > 0:
		w.activeID = w.tabs[idx-1].ID
	default:
		w.activeID = w.tabs[0].ID
	}
}

// ActivateTab делает вкладку активной и снимает отметку непрочитанного.
func (w *Workspace) ActivateTab(tabID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t := w.findTab(tabID); t != nil {
		w.activeID = t.ID
		t.Unread = false
	}
}

// OnAnalysisSaved фиксирует переход вкладки "несохраненный чат ->
// сохраненный": проставляет ChatID и заголовок, двигает RefreshTrigger,
// чтобы список чатов перезапросился. Вкладка с уже заполненным ChatID
// не трогается.
func (w *Workspace) OnAnalysisSaved(tabID, chatID, title string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := w.findTab(tabID)
	if t == nil || t.ChatID != nil {
		return
	}

	id := chatID
	t.ChatID = &id
	if title != "" {
		t.Title = title
	}
	w.refreshTrigger++
}

// AppendMessage добавляет сообщение во вкладку. Сообщение, пришедшее
// в неактивную вкладку, помечает ее непрочитанной.
func (w *Workspace) AppendMessage(tabID string, msg Message) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := w.findTab(tabID)
	if t == nil {
		return false
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	t.Messages = append(t.Messages, msg)
	if w.activeID != t.ID {
		t.Unread = true
	}
	return true
}

// Ticket - идентификатор вкладки, снятый в момент отправки запроса.
// Ответ доставляется строго во вкладку-источник; если вкладку успели
// закрыть, проверка поколения отбрасывает доставку.
type Ticket struct {
	TabID string
	gen   uint64
}

// TicketFor снимает билет доставки для вкладки.
func (w *Workspace) TicketFor(tabID string) (Ticket, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	t := w.findTab(tabID)
	if t == nil {
		return Ticket{}, false
	}
	return Ticket{TabID: t.ID, gen: t.gen}, true
}

// Deliver доставляет сообщение по билету. Возвращает false, если
// вкладка закрыта или пересоздана после снятия билета.
func (w *Workspace) Deliver(ticket Ticket, msg Message) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := w.findTab(ticket.TabID)
	if t == nil || t.gen != ticket.gen {
		return false
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	t.Messages = append(t.Messages, msg)
	if w.activeID != t.ID {
		t.Unread = true
	}
	return true
}

// Tab возвращает копию вкладки.
func (w *Workspace) Tab(tabID string) (Tab, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	t := w.findTab(tabID)
	if t == nil {
		return Tab{}, false
	}
	copied := *t
	copied.Messages = append([]Message(nil), t.Messages...)
	return copied, true
}

// OnChatDeleted обрабатывает удаление чата: открытая вкладка остается,
// но отвязывается от чата (ChatID -> nil, заголовок сохраняется),
// RefreshTrigger двигается для перезапроса списка.
func (w *Workspace) OnChatDeleted(chatID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, t := range w.tabs {
		if t.ChatID != nil && *t.ChatID == chatID {
			t.ChatID = nil
		}
	}
	w.refreshTrigger++
}

func (w *Workspace) findTab(tabID string) *Tab {
	for _, t := range w.tabs {
		if t.ID == tabID {
			return t
		}
	}
	return nil
}
