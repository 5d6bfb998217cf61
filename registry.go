package discmd

//AddCommand registers a command under its name and every alias, a collision
//with anything already registered fails without partial registration
func (b *Bot) AddCommand(cmd Command) error {
	b.m.Lock()
	defer b.m.Unlock()
	keys := append([]string{cmd.Name()}, cmd.Aliases()...)
	for _, key := range keys {
		if _, ok := b.commands[key]; ok {
			return CommandRegisteredError{Name: key}
		}
	}
	for _, key := range keys {
		b.commands[key] = cmd
	}
	return nil
}

func MustAddCommand(b *Bot, cmd Command) {
	if err := b.AddCommand(cmd); err != nil {
		panic(err)
	}
}

//RemoveCommand unregisters a command with all keys pointing at it, name may
//be either the canonical name or an alias
func (b *Bot) RemoveCommand(name string) {
	b.m.Lock()
	defer b.m.Unlock()
	cmd, ok := b.commands[name]
	if !ok {
		return
	}
	for key, registered := range b.commands {
		if registered == cmd {
			delete(b.commands, key)
		}
	}
}

//Command looks a command up by name or alias
func (b *Bot) Command(name string) (Command, bool) {
	b.m.RLock()
	defer b.m.RUnlock()
	cmd, ok := b.commands[name]
	return cmd, ok
}

//Commands lists registered commands once each, aliases deduplicated
func (b *Bot) Commands() []Command {
	b.m.RLock()
	defer b.m.RUnlock()
	res := make([]Command, 0, len(b.commands))
	for key, cmd := range b.commands {
		if key != cmd.Name() {
			continue
		}
		res = append(res, cmd)
	}
	return res
}

//AddCog registers a cog and every command it holds, rolling the commands
//back if any of them collides
func (b *Bot) AddCog(cog *Cog) error {
	b.m.Lock()
	if _, ok := b.cogs[cog.Name()]; ok {
		b.m.Unlock()
		return CommandRegisteredError{Name: cog.Name()}
	}
	b.cogs[cog.Name()] = cog
	b.m.Unlock()

	added := make([]Command, 0, len(cog.Commands()))
	for _, cmd := range cog.Commands() {
		if err := b.AddCommand(cmd); err != nil {
			for _, a := range added {
				b.RemoveCommand(a.Name())
			}
			b.m.Lock()
			delete(b.cogs, cog.Name())
			b.m.Unlock()
			return err
		}
		added = append(added, cmd)
	}
	return nil
}

func (b *Bot) RemoveCog(name string) {
	b.m.Lock()
	cog, ok := b.cogs[name]
	if !ok {
		b.m.Unlock()
		return
	}
	delete(b.cogs, name)
	b.m.Unlock()
	for _, cmd := range cog.Commands() {
		b.RemoveCommand(cmd.Name())
	}
}

func (b *Bot) Cog(name string) (*Cog, bool) {
	b.m.RLock()
	defer b.m.RUnlock()
	cog, ok := b.cogs[name]
	return cog, ok
}

func (b *Bot) Cogs() []*Cog {
	b.m.RLock()
	defer b.m.RUnlock()
	res := make([]*Cog, 0, len(b.cogs))
	for _, cog := range b.cogs {
		res = append(res, cog)
	}
	return res
}

//helpMapping groups every registered command by owning cog for bot-wide
//help, commands outside any cog live under the nil key
func (b *Bot) helpMapping() map[*Cog][]Command {
	mapping := map[*Cog][]Command{}
	for _, cog := range b.Cogs() {
		mapping[cog] = cog.Commands()
	}
	for _, cmd := range b.Commands() {
		if cmd.Cog() != nil {
			continue
		}
		mapping[nil] = append(mapping[nil], cmd)
	}
	return mapping
}
