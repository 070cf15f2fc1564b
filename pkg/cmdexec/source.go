package cmdexec

import (
	"strings"

	"github.com/openpeace/peace/pkg/perr"
)

// buildSource reconstructs the YAML-shaped description of a whole
// CmdExecution (spec §4.7), reproducing original_source
// cmd_execution_error_builder.rs's cmd_execution_src algorithm: one
// "<BlockName>:" line per block, an "Input:" line (bare name, or a
// parenthesised comma-joined tuple, or "()" if empty), an "Outcome:" line
// likewise, while tracking the byte span of the first occurrence of
// missingShortName within an Input: line.
func buildSource(executionName, executionOutcomeTypeName string, descs []BlockDesc, missingShortName string) (string, *perr.Span) {
	var b strings.Builder
	var span *perr.Span

	b.WriteString(executionName)
	b.WriteString(":\n")
	b.WriteString("  ExecutionOutcome: ")
	b.WriteString(executionOutcomeTypeName)
	b.WriteString("\n")
	b.WriteString("CmdBlocks:\n")

	for _, desc := range descs {
		b.WriteString("  - ")
		b.WriteString(desc.Name)
		b.WriteString(":\n")

		b.WriteString("    Input: ")
		writeNameTuple(&b, desc.InputNamesShort, missingShortName, &span)
		b.WriteString("\n")

		b.WriteString("    Outcome: ")
		writeNameTuple(&b, desc.OutcomeNamesShort, "", nil)
		b.WriteString("\n")
	}

	return b.String(), span
}

// writeNameTuple writes names as a bare identifier, a parenthesised
// comma-joined tuple, or "()", matching the original's
// split_first/try_fold rendering. When span is non-nil, it records the
// byte offset of the first name equal to missing, leaving span untouched
// once set (spec: "the byte span of the first occurrence").
func writeNameTuple(b *strings.Builder, names []string, missing string, span **perr.Span) {
	if len(names) == 0 {
		b.WriteString("()")
		return
	}

	first, rest := names[0], names[1:]
	noteSpan := func(name string) {
		if span != nil && *span == nil && missing != "" && name == missing {
			*span = &perr.Span{Start: b.Len(), Len: len(name)}
		}
	}

	if len(rest) == 0 {
		noteSpan(first)
		b.WriteString(first)
		return
	}

	b.WriteString("(")
	noteSpan(first)
	b.WriteString(first)
	for _, name := range rest {
		if span != nil && *span == nil && missing != "" && name == missing {
			// +2 accounts for the ", " written just below, matching the
			// original's "+ 2 is for the comma and space" comment.
			*span = &perr.Span{Start: b.Len() + 2, Len: len(name)}
		}
		b.WriteString(", ")
		b.WriteString(name)
	}
	b.WriteString(")")
}

// BuildInputFetchError reports that blocks[blockIndex] could not fetch
// one of its declared inputs, reconstructing the diagnostic source over
// every block in the execution (spec §4.6 step 2, §4.7).
func BuildInputFetchError(executionName, executionOutcomeTypeName string, descs []BlockDesc, blockIndex int, missingShortName, missingFullName string) *perr.Error {
	blockDescStrings := make([]string, len(descs))
	for i, d := range descs {
		blockDescStrings[i] = d.Name
	}

	source, span := buildSource(executionName, executionOutcomeTypeName, descs, missingShortName)

	return perr.NewCmdExecutionInputFetch(blockIndex, missingShortName, missingFullName, blockDescStrings, source, span)
}
