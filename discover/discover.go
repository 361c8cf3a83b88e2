// Package discover locates command registrations in a parsed upstream
// program.
//
// A registration is a call of the form
//
//	program.command('run', 'Run the extension', commands.run, {...options})
//
// whose callee is a member access named "command", whose first argument is a
// string literal naming the command and whose fourth argument is the option
// schema object literal.
package discover

import (
	"github.com/tdewolff/parse/v2/js"

	"github.com/lex00/webext-types/literal"
)

// CommandMethod is the member name that registers a subcommand.
const CommandMethod = "command"

// optionsArg is the position of the option schema among the call arguments.
const optionsArg = 3

// Registration is one matched command registration.
type Registration struct {
	// Command is the registered command name.
	Command string
	// Call is the registration call expression.
	Call *js.CallExpr
	// Options is the option schema literal.
	Options *js.ObjectExpr
}

// FindCommandSchema returns the first registration of command in a pre-order
// walk of tree. The walk stops at the first match.
func FindCommandSchema(tree js.INode, command string) (*Registration, bool) {
	f := &finder{match: func(r *Registration) bool { return r.Command == command }}
	js.Walk(f, tree)
	if len(f.found) == 0 {
		return nil, false
	}
	return f.found[0], true
}

// ListCommands returns the names of all registrations in tree, in walk
// order. A name registered twice is listed twice.
func ListCommands(tree js.INode) []string {
	f := &finder{all: true, match: func(*Registration) bool { return true }}
	js.Walk(f, tree)
	names := make([]string, 0, len(f.found))
	for _, r := range f.found {
		names = append(names, r.Command)
	}
	return names
}

// finder is a pre-order visitor collecting registrations accepted by match.
// Unless all is set it stops descending once one registration is found.
//
// A registration is recorded after its callee has been walked, so in a
// chain like a.command('x', ...).command('y', ...) the textually earlier
// call comes first.
type finder struct {
	match func(*Registration) bool
	all   bool
	found []*Registration
}

func (f *finder) done() bool {
	return !f.all && len(f.found) > 0
}

// Enter implements js.IVisitor.
func (f *finder) Enter(n js.INode) js.IVisitor {
	if f.done() {
		return nil
	}
	call, ok := n.(*js.CallExpr)
	if !ok {
		return f
	}
	r, ok := MatchRegistration(call)
	if !ok || !f.match(r) {
		return f
	}

	js.Walk(f, call.X)
	if f.done() {
		return nil
	}
	f.found = append(f.found, r)
	if f.done() {
		return nil
	}
	for _, arg := range call.Args.List {
		js.Walk(f, arg.Value)
	}
	return nil
}

// Exit implements js.IVisitor.
func (f *finder) Exit(js.INode) {}

// MatchRegistration reports whether call has the registration shape and
// returns its parts.
func MatchRegistration(call *js.CallExpr) (*Registration, bool) {
	callee, ok := call.X.(*js.DotExpr)
	if !ok {
		return nil, false
	}
	if name, ok := literal.MemberName(callee); !ok || name != CommandMethod {
		return nil, false
	}

	args := call.Args.List
	if len(args) <= optionsArg || args[0].Rest || args[optionsArg].Rest {
		return nil, false
	}

	nameLit, ok := args[0].Value.(*js.LiteralExpr)
	if !ok || nameLit.TokenType != js.StringToken {
		return nil, false
	}
	command, err := literal.Unquote(string(nameLit.Data))
	if err != nil {
		return nil, false
	}

	options, ok := args[optionsArg].Value.(*js.ObjectExpr)
	if !ok {
		return nil, false
	}

	return &Registration{Command: command, Call: call, Options: options}, true
}
