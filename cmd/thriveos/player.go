package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/thriveremote/thriveos/internal/media"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

var playerActions = []string{
	shell.PlayerToggle, shell.PlayerNext, shell.PlayerPrevious, shell.PlayerSeek,
	shell.PlayerVolume, shell.PlayerShuffle, shell.PlayerRepeat, shell.PlayerExpand,
	shell.PlayerSelect,
}

func printPlayerUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: thriveos player <action> [--video] [--session ID] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Actions:")
	fmt.Fprintln(w, "  toggle              Play or pause")
	fmt.Fprintln(w, "  next, previous      Change track")
	fmt.Fprintln(w, "  seek --fraction F   Jump to a fraction (0-1) of the track")
	fmt.Fprintln(w, "  volume --volume V   Set volume (0-1)")
	fmt.Fprintln(w, "  shuffle             Toggle shuffle")
	fmt.Fprintln(w, "  repeat [--repeat M] Set repeat mode (none, all, one); cycles when omitted")
	fmt.Fprintln(w, "  expand              Toggle the expanded view")
	fmt.Fprintln(w, "  select --index N    Play the track at index N")
	fmt.Fprintln(w, "  state               Show the player without changing it")
}

func runPlayer(args []string) int {
	if len(args) == 0 {
		printPlayerUsage(os.Stderr)
		return 2
	}
	if wantsHelp(args) {
		printPlayerUsage(os.Stdout)
		return 0
	}

	action := args[0]
	fs := flag.NewFlagSet("player "+action, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	session := fs.String("session", "", "Desktop session (default: the shared session)")
	video := fs.Bool("video", false, "Control the video player instead of the audio player")
	fraction := fs.Float64("fraction", -1, "Seek position as a fraction of the track (seek)")
	volume := fs.Float64("volume", -1, "Volume from 0 to 1 (volume)")
	index := fs.Int("index", -1, "Playlist index (select)")
	repeat := fs.String("repeat", "", "Repeat mode: none, all or one (repeat)")
	fs.Usage = func() { printPlayerUsage(os.Stderr) }
	if code := parseFlags(fs, args[1:]); code >= 0 {
		return code
	}

	kind := media.KindAudio
	if *video {
		kind = media.KindVideo
	}
	client := newClient(*session)

	if action == "state" {
		st, err := client.GetState()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		ps := st.Audio
		if kind == media.KindVideo {
			ps = st.Video
		}
		printPlayerState(os.Stdout, ps)
		return 0
	}

	cmd, err := buildPlayerCommand(kind, action, *fraction, *volume, *index, *repeat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	st, err := client.PlayerAction(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printPlayerState(os.Stdout, *st)
	return 0
}

// buildPlayerCommand checks the flags an action needs. Negative values mean
// the flag was not given.
func buildPlayerCommand(kind media.Kind, action string, fraction, volume float64, index int, repeat string) (shell.PlayerCommand, error) {
	known := false
	for _, a := range playerActions {
		if a == action {
			known = true
			break
		}
	}
	if !known {
		return shell.PlayerCommand{}, fmt.Errorf("unknown player action %q", action)
	}

	cmd := shell.PlayerCommand{Player: string(kind), Action: action, Repeat: repeat}
	switch action {
	case shell.PlayerSeek:
		if fraction < 0 {
			return cmd, fmt.Errorf("seek requires --fraction")
		}
		cmd.Fraction = fraction
	case shell.PlayerVolume:
		if volume < 0 {
			return cmd, fmt.Errorf("volume requires --volume")
		}
		cmd.Volume = volume
	case shell.PlayerSelect:
		if index < 0 {
			return cmd, fmt.Errorf("select requires --index")
		}
		cmd.Index = index
	case shell.PlayerRepeat:
		if repeat != "" {
			if _, err := playlist.ParseRepeatMode(repeat); err != nil {
				return cmd, err
			}
		}
	}
	return cmd, nil
}

func printPlayerState(w io.Writer, st player.State) {
	fmt.Fprintf(w, "player:   %s\n", st.Kind)
	fmt.Fprintf(w, "phase:    %s\n", st.Phase)
	if st.Track != nil {
		fmt.Fprintf(w, "track:    %d/%d %s - %s\n", st.CurrentTrackIndex+1, st.PlaylistLength, st.Track.Title, st.Track.Artist)
	} else {
		fmt.Fprintf(w, "track:    none (%d in playlist)\n", st.PlaylistLength)
	}
	fmt.Fprintf(w, "time:     %s / %s\n", playlist.FormatDuration(secondsOf(st.CurrentTime)), playlist.FormatDuration(secondsOf(st.Duration)))
	fmt.Fprintf(w, "volume:   %.0f%%\n", st.Volume*100)
	fmt.Fprintf(w, "shuffle:  %v\n", st.IsShuffling)
	fmt.Fprintf(w, "repeat:   %s\n", st.RepeatMode)
}

func secondsOf(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
