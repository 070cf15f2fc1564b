package cmdexec

import "github.com/openpeace/peace/pkg/cmdblock"

// BlockDesc is a snapshot of one Block's diagnostic descriptors, taken
// once at CmdExecution construction time so the diagnostic source (spec
// §4.7) can be reconstructed even after a later block has failed.
type BlockDesc struct {
	Name              string
	InputNamesShort   []string
	InputNamesFull    []string
	OutcomeNamesShort []string
	OutcomeNamesFull  []string
}

func descOf(b cmdblock.Block) BlockDesc {
	return BlockDesc{
		Name:              b.Desc(),
		InputNamesShort:   b.InputNamesShort(),
		InputNamesFull:    b.InputNamesFull(),
		OutcomeNamesShort: b.OutcomeNamesShort(),
		OutcomeNamesFull:  b.OutcomeNamesFull(),
	}
}

func descsOf(blocks []cmdblock.Block) []BlockDesc {
	descs := make([]BlockDesc, len(blocks))
	for i, b := range blocks {
		descs[i] = descOf(b)
	}
	return descs
}
