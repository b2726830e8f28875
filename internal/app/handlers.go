package app

import (
	"fmt"

	"github.com/atomicstack/popup-launcher/internal/actions"
	"github.com/atomicstack/popup-launcher/internal/commands"
)

// refresher is implemented by views whose rows depend on state a handler
// just changed.
type refresher interface {
	Refresh()
}

func defaultHandlers() map[actions.HandlerID]Handler {
	return map[actions.HandlerID]Handler{
		actions.HandlerMenuToggle:   handleMenuToggle,
		commands.HandlerRunCommand:  handleRunCommand,
		commands.HandlerSelectTheme: handleSelectTheme,
		commands.HandlerHide:        handleHide,
		commands.HandlerClearQuery:  handleClearQuery,
		commands.HandlerBack:        handleBack,
	}
}

func handleMenuToggle(c *Context, _ actions.Entry) error {
	c.Stack.Active().Actions.ToggleMenu()
	return nil
}

// handleRunCommand opens a command from inside the launcher. Unlike a
// client request it keeps the current stack.
func handleRunCommand(c *Context, e actions.Entry) error {
	cmd, ok := c.Registry.Find(e.Arg)
	if !ok {
		return fmt.Errorf("unknown command %s", e.Arg)
	}
	c.invoke(cmd)
	return nil
}

func handleSelectTheme(c *Context, e actions.Entry) error {
	id := e.Arg
	if meta := c.Stack.Active().Actions.Meta(); id == "" && meta.Kind == actions.MetaTheme {
		id = meta.ID
	}
	p, err := c.Themes.Select(id)
	if err != nil {
		return err
	}
	if r, ok := c.Stack.Active().View.(refresher); ok {
		r.Refresh()
	}
	c.Toast().Success(fmt.Sprintf("Theme set to %s", p.Name))
	return nil
}

func handleHide(c *Context, _ actions.Entry) error {
	c.Visibility.Hide()
	return nil
}

func handleClearQuery(c *Context, _ actions.Entry) error {
	c.Stack.Active().Query.Clear()
	return nil
}

func handleBack(c *Context, _ actions.Entry) error {
	c.Stack.Pop()
	return nil
}
