package discmd

import (
	"fmt"
	"reflect"
	"sync"
)

//Executor is a leaf command, it stores the analyzed callback alongside
//naming, chain and hook configuration
type Executor struct {
	name        string
	aliases     []string
	description string
	parent      *Group
	cog         *Cog
	m           sync.RWMutex

	chain  Chain
	before Hook
	after  Hook

	//fn is the callback, validated by analyzeHandler on construction
	fn       interface{}
	params   []*Parameter
	kwStruct reflect.Type
	kwArgs   []*kwArgument
}

var _ Command = (*Executor)(nil)

func NewExecutor(name string, description string, fn interface{}) (*Executor, error) {
	params, kwStruct, kwArgs, err := analyzeHandler(fn)
	if err != nil {
		return nil, fmt.Errorf(`failed to parse command "%s": %w`, name, err)
	}
	return &Executor{
		name:        name,
		description: description,
		fn:          fn,
		params:      params,
		kwStruct:    kwStruct,
		kwArgs:      kwArgs,
	}, nil
}

func MustNewExecutor(name string, description string, fn interface{}) *Executor {
	executor, err := NewExecutor(name, description, fn)
	if err != nil {
		panic(fmt.Errorf("error creating executor named %s: %w", name, err))
	}
	return executor
}

func (e *Executor) Name() string {
	return e.name
}

func (e *Executor) Aliases() []string {
	e.m.RLock()
	defer e.m.RUnlock()
	return append([]string(nil), e.aliases...)
}

func (e *Executor) SetAliases(aliases ...string) *Executor {
	e.m.Lock()
	defer e.m.Unlock()
	e.aliases = aliases
	return e
}

func (e *Executor) Description() string {
	return e.description
}

func (e *Executor) QualifiedName() string {
	if e.parent == nil {
		return e.name
	}
	return e.parent.QualifiedName() + " " + e.name
}

func (e *Executor) Parent() Command {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Executor) RootParent() Command {
	if e.parent == nil {
		return nil
	}
	var root Command = e.parent
	for root.Parent() != nil {
		root = root.Parent()
	}
	return root
}

func (e *Executor) Cog() *Cog {
	e.m.RLock()
	defer e.m.RUnlock()
	return e.cog
}

//Params exposes the analyzed positional parameters, external parsers
//consume these to drive conversion
func (e *Executor) Params() []*Parameter {
	return append([]*Parameter(nil), e.params...)
}

func (e *Executor) SetChain(chain Chain) {
	e.m.Lock()
	defer e.m.Unlock()
	e.chain = chain
}

func (e *Executor) Chain() Chain {
	e.m.RLock()
	defer e.m.RUnlock()
	return e.chain
}

func (e *Executor) SetBeforeInvoke(h Hook) {
	e.m.Lock()
	defer e.m.Unlock()
	e.before = h
}

func (e *Executor) SetAfterInvoke(h Hook) {
	e.m.Lock()
	defer e.m.Unlock()
	e.after = h
}

func (e *Executor) Invoke(ctx *Context) error {
	return e.invokeAs(e, ctx)
}

func (e *Executor) Reinvoke(ctx *Context, callHooks bool) error {
	return e.reinvokeAs(e, ctx, callHooks)
}

//invokeAs runs the regular pipeline on behalf of self, which differs from
//e when the executor is embedded in a Group
func (e *Executor) invokeAs(self Command, ctx *Context) error {
	ctx.Command = self
	if err := e.parseArguments(ctx); err != nil {
		return err
	}
	handler := e.Chain().Then(func(ctx *Context) error {
		return e.hookedCall(ctx, true, true)
	})
	return handler(ctx)
}

func (e *Executor) reinvokeAs(self Command, ctx *Context, callHooks bool) error {
	ctx.Command = self
	if err := e.parseArguments(ctx); err != nil {
		return err
	}
	return e.hookedCall(ctx, callHooks, false)
}

func (e *Executor) parseArguments(ctx *Context) error {
	if ctx.Bot == nil {
		return nil
	}
	parser := ctx.Bot.Parser()
	if parser == nil {
		return nil
	}
	return parser.ParseArguments(ctx)
}

//hookedCall invokes the callback with Context.Args and Context.Kwargs,
//optionally surrounded by bot and command level hooks
//after hooks fire even when the callback errors, mirroring the guarantee
//Reinvoke gives about restoration
func (e *Executor) hookedCall(ctx *Context, callHooks bool, wrap bool) error {
	call := func() error {
		err := e.callWith(ctx, ctx.Args, ctx.Kwargs)
		if err != nil && wrap {
			if _, ok := err.(ArgumentMismatchError); !ok {
				err = CommandInvokeError{Name: e.QualifiedName(), err: err}
			}
		}
		return err
	}
	if !callHooks {
		return call()
	}
	if ctx.Bot != nil {
		if h := ctx.Bot.beforeHook(); h != nil {
			if err := h(ctx); err != nil {
				return err
			}
		}
	}
	e.m.RLock()
	before, after := e.before, e.after
	e.m.RUnlock()
	if before != nil {
		if err := before(ctx); err != nil {
			return err
		}
	}
	err := call()
	if after != nil {
		if aerr := after(ctx); err == nil {
			err = aerr
		}
	}
	if ctx.Bot != nil {
		if h := ctx.Bot.afterHook(); h != nil {
			if aerr := h(ctx); err == nil {
				err = aerr
			}
		}
	}
	return err
}

//callWith calls the callback directly with the given arguments, bypassing
//parsing, the chain and all hooks
func (e *Executor) callWith(ctx *Context, args []interface{}, kwargs map[string]interface{}) error {
	values, err := buildCallValues(e, ctx, args, kwargs)
	if err != nil {
		return err
	}
	rets := reflect.ValueOf(e.fn).Call(values)
	if ret := rets[0]; !ret.IsNil() {
		return ret.Interface().(error)
	}
	return nil
}

func (e *Executor) setParent(p *Group) {
	e.m.Lock()
	defer e.m.Unlock()
	e.parent = p
}

func (e *Executor) setCog(c *Cog) {
	e.m.Lock()
	defer e.m.Unlock()
	e.cog = c
}
