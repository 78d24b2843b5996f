// Package cryptocore is the cryptographic core of a digital-cash and contract
// platform. It seals payloads for several recipients at once, derives keys
// from passphrases, streams data through an authenticated cipher and signs
// contract text.
//
// Basic usage:
//
//	p, err := cryptocore.Init()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cryptocore.Cleanup()
//
//	alice, _ := p.GenerateKey(cryptocore.X25519)
//	bob, _ := p.GenerateKey(cryptocore.MLKEM768)
//
//	recipients := cryptocore.NewRecipientList()
//	recipients.Add("alice", alice.Public())
//	recipients.Add("bob", bob.Public())
//
//	sealed, err := p.Seal(recipients, []byte("voucher #1042"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plain, err := p.Open(sealed, bob, "bob")
//
// # Provider
//
// A [Provider] is built with [New] and configured with options or an
// environment-derived configuration (see [WithConfig]). One process-wide
// instance is managed by [Init], [Default] and [Cleanup]. Calling Init again,
// including after Cleanup, panics.
//
// # Envelopes
//
// [Provider.Seal] encrypts a payload once under a fresh session key and wraps
// that key for every recipient with RSA-OAEP, X25519 or ML-KEM-768.
// [Provider.Open] finds the caller's entry by identifier, unwraps the session
// key and decrypts. Parse failures carry a [*ParseError] with the field name
// and byte offset; truncated or tampered envelopes never cause out-of-bounds
// reads.
//
// # Signatures
//
// [Provider.Sign] and [Provider.Verify] select a scheme by hash name. See
// [HashNames] for the accepted names. Keys may also be supplied as PEM blobs
// and certificates through [Provider.SignWithPEM] and
// [Provider.VerifyWithCertificate].
//
// # Errors
//
// Errors fall into four groups. Precondition errors ([IsPrecondition]) are
// caller bugs; some, like an empty salt for DeriveKey, panic. Parse failures
// ([IsParseFailure]) come from malformed input. Primitive failures
// ([IsPrimitiveFailure]) come from the random source or a cipher. Semantic
// failures ([IsSemanticFailure]) are expected outcomes: no matching recipient,
// a bad signature or a wrong passphrase.
package cryptocore
