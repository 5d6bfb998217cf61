package discmd

//Middleware is a step in a command's invocation chain, it receives the
//context and decides whether to continue by calling next
type Middleware func(ctx *Context) error

//Chainer wraps a Middleware with another, producing the next link
type Chainer func(next Middleware) Middleware

//Chain is an ordered, immutable set of Chainers applied outermost first
//checks such as permissions or cooldowns are expressed as Chainers so that
//Reinvoke can bypass them wholesale
type Chain struct {
	builders []Chainer
}

func NewChain(builders ...Chainer) Chain {
	return Chain{builders: builders}
}

func (c Chain) Then(m Middleware) Middleware {
	for i := len(c.builders) - 1; i >= 0; i-- {
		m = c.builders[i](m)
	}
	return m
}

func (c Chain) Append(builders ...Chainer) Chain {
	nc := make([]Chainer, 0, len(c.builders)+len(builders))
	nc = append(nc, c.builders...)
	nc = append(nc, builders...)
	return Chain{builders: nc}
}

func (c Chain) Extend(chain Chain) Chain {
	return c.Append(chain.builders...)
}
