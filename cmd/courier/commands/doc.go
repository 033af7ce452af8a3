// Package commands defines the courier CLI and wires dependencies for subcommands.
//
// Commands
//
//   - keys new       Create and store an encrypted signing key
//   - keys import    Store an existing hex private key
//   - keys show      Print the stored public key and fingerprint
//   - send           Authenticate, send one payload, exit
//   - get            Authenticate, fetch one delivery, exit
//   - shell          Authenticate, then read send/get/exit commands from stdin
//   - inbox          List locally recorded messages
//   - inspect        Decode a hex container and check its signature
//
// # Implementation
//
// The root command loads the YAML config, overlays any flags that were set,
// and builds the app.Wire (logger, identity, history) before a subcommand
// runs. Commands that talk to the relay pick a signing key, connect and
// authenticate through the wire, and close the session on return.
package commands
