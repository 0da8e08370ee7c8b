package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// WinLines - the 8 lines in evaluation order: rows, columns, then the two diagonals.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome describes what a successful move did to the room.
type Outcome struct {
	Mark    entity.Mark
	Won     bool
	// Draw is set when the move filled the board without a line.
	Draw bool
	Pattern [3]int
}

// MakeTurn - applies a move by connID to the room. The room is left untouched on error.
//
// Checks run in a fixed order: readiness, cell range, occupancy, then turn.
func MakeTurn(room *entity.Room, connID string, cell int) (Outcome, error) {
	if err := validateMove(room, connID, cell); err != nil {
		return Outcome{}, fmt.Errorf("invalid turn: %w", err)
	}

	mark := room.CurrentPlayer
	room.Board[cell] = mark

	if pattern, ok := FindWinningLine(room.Board); ok {
		room.ResetBoard()

		return Outcome{Mark: mark, Won: true, Pattern: pattern}, nil
	}

	room.CurrentPlayer = mark.Toggle()

	// a full board is kept as is; every later move fails with an occupied cell
	return Outcome{Mark: mark, Draw: IsBoardFull(room.Board)}, nil
}

// validateMove - checks if the move is valid.
func validateMove(room *entity.Room, connID string, cell int) error {
	if room.IsOpen() {
		return apperror.ErrRoomNotReady
	}

	if !entity.IsValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if room.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	// a member seated without a symbol never matches the current player
	if mark, ok := room.Players[connID]; !ok || mark != room.CurrentPlayer {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// FindWinningLine - returns the first line whose three cells hold the same symbol.
func FindWinningLine(board entity.Board) ([3]int, bool) {
	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return line, true
		}
	}

	return [3]int{}, false
}

// IsBoardFull - reports whether no empty cell is left.
func IsBoardFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}
