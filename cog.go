package discmd

import (
	"sync"
)

//Cog is a named grouping of related commands, registering a cog on the bot
//registers every command it holds
type Cog struct {
	name        string
	description string
	commands    []Command
	m           sync.RWMutex
}

func NewCog(name string, description string) *Cog {
	return &Cog{
		name:        name,
		description: description,
	}
}

func (c *Cog) Name() string {
	return c.name
}

func (c *Cog) Description() string {
	return c.description
}

func (c *Cog) AddCommand(cmd Command) *Cog {
	c.m.Lock()
	defer c.m.Unlock()
	cmd.setCog(c)
	_, i := c.findCommand(cmd.Name())
	if i < 0 {
		c.commands = append(c.commands, cmd)
		return c
	}
	c.commands[i] = cmd
	return c
}

func (c *Cog) RemoveCommand(name string) {
	c.m.Lock()
	defer c.m.Unlock()
	cmd, i := c.findCommand(name)
	if i < 0 {
		return
	}
	cmd.setCog(nil)
	c.commands = append(c.commands[:i], c.commands[i+1:]...)
}

func (c *Cog) Command(name string) (Command, bool) {
	c.m.RLock()
	defer c.m.RUnlock()
	cmd, i := c.findCommand(name)
	if i < 0 {
		return nil, false
	}
	return cmd, true
}

func (c *Cog) Commands() []Command {
	c.m.RLock()
	defer c.m.RUnlock()
	return append([]Command(nil), c.commands...)
}

func (c *Cog) findCommand(name string) (Command, int) {
	for i, cmd := range c.commands {
		if cmd.Name() == name {
			return cmd, i
		}
	}
	return nil, -1
}
