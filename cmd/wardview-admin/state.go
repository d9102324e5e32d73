package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/mediwound/wardview/internal/bootstrap"
	"github.com/mediwound/wardview/internal/ports"
)

// stateKeys is every key the console may have written, in display order.
var stateKeys = []ports.Key{
	ports.KeyAccessToken,
	ports.KeyRefreshToken,
	ports.KeyUser,
	ports.KeyIsAuthenticated,
	ports.KeyRememberedEmail,
	ports.KeyActiveView,
	ports.KeyDisclaimerAck,
}

// redactedKeys never print their value; a leaked token in a terminal
// scrollback is still a leaked token.
var redactedKeys = map[ports.Key]bool{
	ports.KeyAccessToken:  true,
	ports.KeyRefreshToken: true,
}

func runStateShow(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("state-show", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath expression to project the output")
	reveal := fs.Bool("reveal", false, "print token values instead of redacting them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, closer, err := bootstrap.NewPersistentStore(ctx.Config.State)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	state := map[string]any{}
	for _, key := range stateKeys {
		val, ok, err := store.Get(ctx.Ctx, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if redactedKeys[key] && !*reveal {
			state[string(key)] = fmt.Sprintf("<redacted %d bytes>", len(val))
			continue
		}
		// Stored user is JSON; surface it structured rather than as a string.
		if key == ports.KeyUser {
			var u any
			if err := json.Unmarshal([]byte(val), &u); err == nil {
				state[string(key)] = u
				continue
			}
		}
		state[string(key)] = val
	}

	var out any = state
	if *query != "" {
		out, err = jmespath.Search(*query, out)
		if err != nil {
			return fmt.Errorf("evaluate query: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runStateClear(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("state-clear", flag.ContinueOnError)
	keepEmail := fs.Bool("keep-email", false, "keep the remembered login email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, closer, err := bootstrap.NewPersistentStore(ctx.Config.State)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	keys := make([]ports.Key, 0, len(stateKeys))
	for _, key := range stateKeys {
		if key == ports.KeyRememberedEmail && *keepEmail {
			continue
		}
		keys = append(keys, key)
	}
	if err := store.Delete(ctx.Ctx, keys...); err != nil {
		return err
	}

	ctx.Logger.InfoContext(ctx.Ctx, "persistent state cleared",
		"backend", string(ctx.Config.State.Backend), "keys", len(keys))
	return nil
}
