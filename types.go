package discmd

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

//Command is a node in the command tree, either a leaf Executor or a Group
type Command interface {
	Name() string
	Aliases() []string
	Description() string
	//QualifiedName is the full space-separated path from the root command
	QualifiedName() string
	Parent() Command
	//RootParent is the top-most ancestor, nil when the command has no parent
	RootParent() Command
	Cog() *Cog
	//Invoke runs the full pipeline: argument parsing, middleware chain,
	//before/after hooks and the callback
	Invoke(ctx *Context) error
	//Reinvoke runs the callback again bypassing the middleware chain,
	//optionally firing the before/after hooks
	Reinvoke(ctx *Context, callHooks bool) error

	callWith(ctx *Context, args []interface{}, kwargs map[string]interface{}) error
	setParent(p *Group)
	setCog(c *Cog)
}

//Hook runs before or after a command callback during hooked invocation
type Hook func(ctx *Context) error

//ErrorHandler receives errors surfaced by command dispatch
type ErrorHandler func(ctx *Context, err error)

//Parser populates Args, Kwargs and CurrentParameter of a context from its
//view, it is supplied externally and is free to implement any syntax
type Parser interface {
	ParseArguments(ctx *Context) error
}

//PrefixResolver yields the prefixes accepted for a given message
type PrefixResolver func(b *Bot, m *discordgo.Message) []string

func withRWMutex(m *sync.RWMutex, fn func()) {
	m.RLock()
	defer m.RUnlock()
	fn()
}

func withMutex(m *sync.Mutex, fn func()) {
	m.Lock()
	defer m.Unlock()
	fn()
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
