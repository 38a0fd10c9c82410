// Package catalog описывает сервисы и типы ресурсов, общие для CLI и backend'а.
//
// Имена action'ов строятся по соглашению:
//
//	Create<Kind>, Get<Kind>, Update<Kind>, Delete<Kind>, List<Plural>
//
// Имена полей на проводе — lowerCamel: <kind>Id, <kind>, <plural>,
// maxResults, nextToken.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownService — сервис не зарегистрирован.
var ErrUnknownService = errors.New("unknown service")

// ErrUnknownAction — action не соответствует ни одному типу ресурса сервиса.
var ErrUnknownAction = errors.New("unknown action")

// Verb — действие над ресурсом.
type Verb string

const (
	VerbCreate Verb = "Create"
	VerbGet    Verb = "Get"
	VerbList   Verb = "List"
	VerbUpdate Verb = "Update"
	VerbDelete Verb = "Delete"
)

// Verbs — все действия в каноническом порядке.
var Verbs = []Verb{VerbCreate, VerbGet, VerbList, VerbUpdate, VerbDelete}

// Mutating сообщает, меняет ли действие состояние.
func (v Verb) Mutating() bool {
	return v == VerbCreate || v == VerbUpdate || v == VerbDelete
}

// Kind — тип ресурса внутри сервиса.
type Kind struct {
	// Name — имя в единственном числе, PascalCase ("Control", "KnowledgeBase").
	Name string

	// Plural — имя во множественном числе ("Controls", "KnowledgeBases").
	Plural string
}

// IDField — имя поля идентификатора на проводе: "controlId".
func (k Kind) IDField() string { return lowerFirst(k.Name) + "Id" }

// ItemField — имя поля одиночного результата: "control".
func (k Kind) ItemField() string { return lowerFirst(k.Name) }

// ListField — имя поля списка: "controls".
func (k Kind) ListField() string { return lowerFirst(k.Plural) }

// Action возвращает имя action'а для действия.
func (k Kind) Action(verb Verb) string {
	if verb == VerbList {
		return string(VerbList) + k.Plural
	}
	return string(verb) + k.Name
}

// Service — сервис облачного API.
type Service struct {
	// Name — имя сервиса в URL и в CLI ("auditmanager").
	Name string

	// Prefix — короткий префикс для ARN и подписи ("AUDM").
	Prefix string

	// Title — человекочитаемое имя ("Audit Manager").
	Title string

	// Kinds — типы ресурсов сервиса.
	Kinds []Kind
}

// ParseAction раскладывает action на действие и тип ресурса.
func (s *Service) ParseAction(action string) (Verb, Kind, error) {
	for _, kind := range s.Kinds {
		for _, verb := range Verbs {
			if kind.Action(verb) == action {
				return verb, kind, nil
			}
		}
	}
	return "", Kind{}, fmt.Errorf("%w: %s/%s", ErrUnknownAction, s.Name, action)
}

// Actions возвращает все action'ы сервиса.
func (s *Service) Actions() []string {
	actions := make([]string, 0, len(s.Kinds)*len(Verbs))
	for _, kind := range s.Kinds {
		for _, verb := range Verbs {
			actions = append(actions, kind.Action(verb))
		}
	}
	return actions
}

// Registry — набор известных сервисов.
type Registry struct {
	services map[string]*Service
	order    []string
}

// NewRegistry создаёт реестр из списка сервисов.
func NewRegistry(services ...*Service) *Registry {
	r := &Registry{services: make(map[string]*Service, len(services))}
	for _, s := range services {
		r.services[s.Name] = s
		r.order = append(r.order, s.Name)
	}
	return r
}

// Lookup возвращает сервис по имени.
func (r *Registry) Lookup(name string) (*Service, error) {
	s, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, name)
	}
	return s, nil
}

// Services возвращает сервисы в порядке регистрации.
func (r *Registry) Services() []*Service {
	result := make([]*Service, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.services[name])
	}
	return result
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
