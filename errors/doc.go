/*
Package errors implements the error taxonomy shared by all loom packages.

Every error returned by a handler should wrap one of the root errors
declared here (or registered by an extension with Register). Root errors
carry a numeric code that is exposed to the caller, so a client can tell
an unauthorized request from a missing record without parsing messages.

Wrap an error at the point of creation with errors.Wrap or ErrXyz.New to
attach a stack trace. Only the innermost wrap records the stack.

Once you have an error, you can use fmt to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
