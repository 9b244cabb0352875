// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package training

import "linkguard/internal/engine"

// catalog is the built-in scenario set. Every flag category gets at least
// one scenario, ordered roughly easiest to hardest. Payloads are written
// against the default rule tables; NewService verifies that at startup.
var catalog = []Scenario{
	{
		ID:      "trusted-repo",
		Title:   "A well-known code host",
		Payload: "https://github.com/torvalds/linux",
		Focus:   engine.CategoryTrustedDomain,
		Hint:    "Check the registrable domain before anything else.",
	},
	{
		ID:      "shortened-link",
		Title:   "A shortened link on a poster",
		Payload: "https://bit.ly/3xYz",
		Focus:   engine.CategoryShortener,
		Hint:    "You cannot see the destination, but is that alone proof of malice?",
	},
	{
		ID:      "bare-ip-login",
		Title:   "A login page at a numeric address",
		Payload: "http://185.22.10.4/login",
		Focus:   engine.CategoryIPLiteral,
		Hint:    "Legitimate services rarely ask for credentials at a raw IP.",
	},
	{
		ID:      "free-prize-tld",
		Title:   "A prize draw on a free domain",
		Payload: "http://free-prizes.tk/",
		Focus:   engine.CategoryRiskyTLD,
		Hint:    "Some registries give domains away; phishers know that too.",
	},
	{
		ID:      "swapped-letters",
		Title:   "A search engine, slightly off",
		Payload: "https://goggle.com/",
		Focus:   engine.CategoryTyposquat,
		Hint:    "Read the domain out loud, letter by letter.",
	},
	{
		ID:      "zero-for-o",
		Title:   "Sign in to your account",
		Payload: "https://g00gle.com/signin",
		Focus:   engine.CategoryHomograph,
		Hint:    "A zero and the letter o are easy to confuse at poster distance.",
	},
	{
		ID:      "stuffed-subdomain",
		Title:   "A payment confirmation link",
		Payload: "https://secure-account-verify.example-payments.com/login",
		Focus:   engine.CategorySuspiciousStructure,
		Hint:    "Who actually owns this domain? Ignore everything left of it.",
	},
	{
		ID:      "brand-in-subdomain",
		Title:   "PayPal, or is it?",
		Payload: "https://paypal.account-services-hub.com/verify",
		Focus:   engine.CategorySuspiciousStructure,
		Hint:    "A famous name in the subdomain proves nothing about ownership.",
	},
	{
		ID:      "wifi-payload",
		Title:   "Not a link at all",
		Payload: "WIFI:S:coffeeshop;T:WPA;P:muffin;;",
		Hint:    "Not every QR code is a URL. What can the classifier honestly say?",
	},
}
