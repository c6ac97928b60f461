package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/wfunc/mosaic/game"
	"github.com/wfunc/mosaic/logger"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	roomID := flag.String("room", "", "room id to join, empty for a new room")
	local := flag.Bool("local", false, "play hot-seat in this terminal, no server")
	players := flag.Int("players", 2, "number of local players (2-4)")
	variant := flag.String("variant", "standard", "local wall rules: standard or gray")
	seed := flag.Uint64("seed", 0, "local shuffle seed, 0 for random")
	logLevel := flag.String("log", "warn", "log level")
	flag.Parse()

	logger.Init(*logLevel)
	defer logger.Sync()

	in := bufio.NewScanner(os.Stdin)
	if *local {
		v, err := game.ParseVariant(*variant)
		if err != nil {
			logger.Log.Fatal(err)
		}
		if err := playLocal(in, os.Stdout, *players, v, *seed); err != nil {
			logger.Log.Fatal(err)
		}
		return
	}

	if err := playNetworked(in, os.Stdout, *addr, *roomID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
