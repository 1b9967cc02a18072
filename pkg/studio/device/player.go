package device

import "context"

type FfplayPlayer struct {
	bin string
	run Runner
}

var _ Player = (*FfplayPlayer)(nil)

func NewFfplayPlayer(bin string, runner Runner) *FfplayPlayer {
	if bin == "" {
		bin = "ffplay"
	}
	if runner == nil {
		runner = ExecRunner
	}

	return &FfplayPlayer{
		bin: bin,
		run: runner,
	}
}

func (p *FfplayPlayer) Play(ctx context.Context, path string) error {
	return p.run(ctx, p.bin, "-nodisp", "-autoexit", "-loglevel", "error", path)
}
