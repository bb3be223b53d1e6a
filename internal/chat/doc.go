// Package chat implements the relay core: the participant registry, the
// broadcaster, the slash-command interpreter and the dispatcher that ties
// them to a transport through the Peer capability.
//
// The package knows nothing about WebSockets. A transport creates one Peer
// per connection and reports its lifecycle to a Relay with Open, Message,
// Close and Error.
package chat
