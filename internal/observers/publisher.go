package observers

import (
	"sync"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

// EventObserver - получатель аудита выданных подписей
type EventObserver interface {
	OnSignatureIssued(event model.SignatureIssuedEvent)
}

type EventPublisher interface {
	Publish(event model.SignatureIssuedEvent)
	Register(observer EventObserver)
	Unregister(observer EventObserver)
}

// AsyncPublisher рассылает событие всем наблюдателям в отдельных горутинах.
type AsyncPublisher struct {
	observers []EventObserver
	mu        sync.RWMutex
	wg        sync.WaitGroup
}

func NewEventPublisher() *AsyncPublisher {
	return &AsyncPublisher{
		observers: make([]EventObserver, 0),
	}
}

func (p *AsyncPublisher) Publish(event model.SignatureIssuedEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, observer := range p.observers {
		p.wg.Add(1)
		go func(o EventObserver) {
			defer p.wg.Done()
			o.OnSignatureIssued(event)
		}(observer)
	}
}

func (p *AsyncPublisher) Register(observer EventObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

func (p *AsyncPublisher) Unregister(observer EventObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, o := range p.observers {
		if o == observer {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

// Wait дожидается доставки уже опубликованных событий.
func (p *AsyncPublisher) Wait() {
	p.wg.Wait()
}
