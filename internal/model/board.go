package model

import (
	"fmt"
	"strings"
)

// BoardSize is the fixed grid dimension
const BoardSize = 8

// Letter is one of the two playable letters
type Letter string

const (
	LetterS Letter = "S"
	LetterO Letter = "O"
)

// ParseLetter normalises user input into a Letter
func ParseLetter(s string) (Letter, error) {
	l := Letter(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	return l, nil
}

// Valid reports whether l is S or O
func (l Letter) Valid() bool {
	return l == LetterS || l == LetterO
}

// Position identifies a cell on the board
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// Step returns the position n steps away along (dRow, dCol)
func (p Position) Step(dRow, dCol, n int) Position {
	return Position{Row: p.Row + dRow*n, Col: p.Col + dCol*n}
}

// Valid reports whether p lies on the board
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Cell is a written square. Cells are never modified once placed.
type Cell struct {
	Letter  Letter
	OwnerID PlayerID
}

// Triple is three in-line positions spelling S-O-S
type Triple [3]Position

// Board is the shared 8x8 grid. A nil entry is an empty square.
type Board struct {
	Cells [BoardSize][BoardSize]*Cell
}

// Get returns the cell at pos and whether it is filled
func (b *Board) Get(pos Position) (Cell, bool) {
	if !pos.Valid() {
		return Cell{}, false
	}
	c := b.Cells[pos.Row][pos.Col]
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// LetterAt returns the letter at pos, or "" when empty or off the board
func (b *Board) LetterAt(pos Position) Letter {
	c, ok := b.Get(pos)
	if !ok {
		return ""
	}
	return c.Letter
}

// IsEmpty reports whether pos is on the board and unwritten
func (b *Board) IsEmpty(pos Position) bool {
	return pos.Valid() && b.Cells[pos.Row][pos.Col] == nil
}

// Set writes a cell. It is the only mutation path and refuses to overwrite.
func (b *Board) Set(pos Position, letter Letter, owner PlayerID) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: position (%d,%d) out of range", ErrIllegalMove, pos.Row, pos.Col)
	}
	if b.Cells[pos.Row][pos.Col] != nil {
		return fmt.Errorf("%w: cell (%d,%d) already written", ErrIllegalMove, pos.Row, pos.Col)
	}
	b.Cells[pos.Row][pos.Col] = &Cell{Letter: letter, OwnerID: owner}
	return nil
}

// IsFull returns true if all cells are filled
func (b *Board) IsFull() bool {
	return b.FilledCount() == BoardSize*BoardSize
}

// FilledCount returns the number of written cells
func (b *Board) FilledCount() int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.Cells[row][col] != nil {
				count++
			}
		}
	}
	return count
}
