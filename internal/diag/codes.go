package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnterminatedString Code = 1001

	// Парсерные
	SynInfo          Code = 2000
	SynUnclosedBrace Code = 2001
	SynExpectValue   Code = 2002
	SynExpectKey     Code = 2003

	// Выравнивание
	AlignInfo        Code = 3000
	AlignHashEntries Code = 3001

	// Конфигурация
	CfgUnknownStyle          Code = 4001
	CfgUnknownTrailingPolicy Code = 4002
	CfgInvalidManifest       Code = 4003

	// Ошибки I/O
	IOLoadFileError Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	LexInfo:                  "Lexical information",
	LexUnterminatedString:    "Unterminated string",
	SynInfo:                  "Syntax information",
	SynUnclosedBrace:         "Unclosed brace",
	SynExpectValue:           "Expected value after separator",
	SynExpectKey:             "Expected key",
	AlignInfo:                "Alignment information",
	AlignHashEntries:         "Misaligned literal entries",
	CfgUnknownStyle:          "Unknown alignment style",
	CfgUnknownTrailingPolicy: "Unknown trailing argument policy",
	CfgInvalidManifest:       "Invalid configuration file",
	IOLoadFileError:          "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ALN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
