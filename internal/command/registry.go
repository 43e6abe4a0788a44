package command

import (
	"regexp"
	"sort"
	"sync"
)

var (
	// registry хранит зарегистрированные обработчики по имени команды.
	registry = make(map[string]Handler)
	mu       sync.RWMutex
	// commandNamePattern — строгий kebab-case: буквы a-z, цифры, одиночные дефисы.
	commandNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
)

// Register регистрирует обработчик в глобальном реестре.
// Вызывается из init() пакетов-обработчиков.
//
// Паникует если h == nil, имя пустое или не kebab-case,
// либо команда с таким именем уже зарегистрирована.
func Register(h Handler) {
	if h == nil {
		panic("command: nil handler")
	}
	name := h.Name()
	if name == "" {
		panic("command: empty handler name")
	}
	if !commandNamePattern.MatchString(name) {
		panic("command: invalid handler name format (must be kebab-case): " + name)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[name]; exists {
		panic("command: duplicate handler registration for " + name)
	}
	registry[name] = h
}

// Get возвращает обработчик команды по имени.
func Get(name string) (Handler, bool) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := registry[name]
	return h, ok
}

// All возвращает обработчики, отсортированные по имени.
func All() []Handler {
	mu.RLock()
	defer mu.RUnlock()
	result := make([]Handler, 0, len(registry))
	for _, h := range registry {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Names возвращает отсортированный список имён команд.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clearRegistry очищает реестр. Только для тестов.
func clearRegistry() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Handler)
}
