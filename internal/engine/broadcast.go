package engine

import "sync"

// Broadcaster раздаёт значения подписчикам без блокировки издателя.
// Медленный подписчик теряет сообщения, а не задерживает движок.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	closed bool
	onDrop func()
}

// NewBroadcaster создает рассыльщика. onDrop вызывается на каждое потерянное сообщение.
func NewBroadcaster[T any](onDrop func()) *Broadcaster[T] {
	return &Broadcaster[T]{
		subs:   make(map[int]chan T),
		onDrop: onDrop,
	}
}

// Subscribe возвращает канал подписки и функцию отписки
func (b *Broadcaster[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish отправляет значение всем подписчикам
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			if b.onDrop != nil {
				b.onDrop()
			}
		}
	}
}

// Len - число подписчиков
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close закрывает все подписки
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
