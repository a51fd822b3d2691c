package search

import "github.com/hailam/chessplay/internal/chess"

// Evaluation is a tapered, hand-crafted evaluator: every term produces a
// middlegame and an endgame score, and the two are blended by the game
// phase (remaining non-pawn material). All scores are centipawns from
// White's perspective until Evaluate negates for the side to move.

var pieceValues = chess.PieceValue

var passedPawnBonus = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

const (
	passedPawnConnectedBonus   = 20
	passedPawnProtectedBonus   = 15
	passedPawnFreePathBonus    = 30
	passedPawnUnstoppableBonus = 200
)

var kingDistanceBonus = [8]int{0, 0, 10, 20, 30, 40, 50, 60}

var mobilityMgWeight = [6]int{0, 4, 5, 2, 1, 0}
var mobilityEgWeight = [6]int{0, 3, 4, 4, 2, 0}

var attackerWeight = [6]int{0, 20, 20, 40, 80, 0}

const (
	pawnShieldBonus      = 10
	pawnShieldMissing    = -15
	openFileNearKing     = -20
	semiOpenFileNearKing = -10
)

const (
	bishopPairMgBonus = 25
	bishopPairEgBonus = 50
)

const (
	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15
)

const (
	doubledPawnMgPenalty  = -15
	doubledPawnEgPenalty  = -20
	isolatedPawnMgPenalty = -20
	isolatedPawnEgPenalty = -25
)

const tempoBonus = 10

const maxPhase = 24

var phaseWeight = [6]int{0, 1, 1, 2, 4, 0} // Pawn, Knight, Bishop, Rook, Queen, King

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var psts = [...][64]int{pawnPST, knightPST, bishopPST, rookPST, queenPST}

// Evaluate returns the static evaluation of b in centipawns, from the
// side to move's perspective.
func Evaluate(b *chess.Board) int {
	var mg, eg, phase int

	for c := chess.White; c <= chess.Black; c++ {
		sg := 1
		if c == chess.Black {
			sg = -1
		}
		for pt := chess.Pawn; pt <= chess.King; pt++ {
			bb := b.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()

				mg += sg * pieceValues[pt]
				eg += sg * pieceValues[pt]

				pstSq := sq
				if c == chess.Black {
					pstSq = sq.Mirror()
				}
				if pt == chess.King {
					mg += sg * kingMidgamePST[pstSq]
					eg += sg * kingEndgamePST[pstSq]
				} else {
					v := psts[pt][pstSq]
					mg += sg * v
					eg += sg * v
				}

				phase += phaseWeight[pt]
			}
		}
	}

	ppMg, ppEg := evaluatePassedPawns(b)
	mg += ppMg
	eg += ppEg

	mobMg, mobEg := evaluateMobility(b)
	mg += mobMg
	eg += mobEg

	mg += evaluateKingSafety(b)

	bpMg, bpEg := evaluateBishopPair(b)
	mg += bpMg
	eg += bpEg

	rfMg, rfEg := evaluateRooksOnFiles(b)
	mg += rfMg
	eg += rfEg

	psMg, psEg := evaluatePawnStructure(b)
	mg += psMg
	eg += psEg

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if b.SideToMove == chess.Black {
		score = -score
	}
	return score + tempoBonus
}

func isPassedPawn(b *chess.Board, sq chess.Square, c chess.Color) bool {
	file := sq.File()
	enemyPawns := b.Pieces[c.Other()][chess.Pawn]

	fileMask := chess.FileMask[file]
	if file > 0 {
		fileMask |= chess.FileMask[file-1]
	}
	if file < 7 {
		fileMask |= chess.FileMask[file+1]
	}

	var frontMask chess.Bitboard
	if c == chess.White {
		frontMask = chess.SquareBB(sq).NorthFill() &^ chess.SquareBB(sq)
	} else {
		frontMask = chess.SquareBB(sq).SouthFill() &^ chess.SquareBB(sq)
	}

	return enemyPawns&fileMask&frontMask == 0
}

func evaluatePassedPawns(b *chess.Board) (mgBonus, egBonus int) {
	for c := chess.White; c <= chess.Black; c++ {
		sg := 1
		if c == chess.Black {
			sg = -1
		}

		pawns := b.Pieces[c][chess.Pawn]
		friendlyPawns := pawns
		enemy := c.Other()
		friendlyKingSq := b.KingSquare[c]
		enemyKingSq := b.KingSquare[enemy]

		for pawns != 0 {
			sq := pawns.PopLSB()
			if !isPassedPawn(b, sq, c) {
				continue
			}

			relRank := sq.RelativeRank(c)
			file := sq.File()
			bonus := passedPawnBonus[relRank]
			egExtra := 0

			var promoSq chess.Square
			if c == chess.White {
				promoSq = chess.NewSquare(file, 7)
			} else {
				promoSq = chess.NewSquare(file, 0)
			}

			friendlyKingDist := chebyshevDistance(friendlyKingSq, sq)
			egExtra += kingDistanceBonus[7-min(friendlyKingDist, 7)]

			enemyKingDistToPromo := chebyshevDistance(enemyKingSq, promoSq)
			egExtra += kingDistanceBonus[min(enemyKingDistToPromo, 7)]

			if chess.PawnAttacks(sq, c.Other())&friendlyPawns != 0 {
				bonus += passedPawnProtectedBonus
			}

			var adjacentFiles chess.Bitboard
			if file > 0 {
				adjacentFiles |= chess.FileMask[file-1]
			}
			if file < 7 {
				adjacentFiles |= chess.FileMask[file+1]
			}
			for temp := friendlyPawns & adjacentFiles; temp != 0; {
				connSq := temp.PopLSB()
				if isPassedPawn(b, connSq, c) {
					bonus += passedPawnConnectedBonus
					break
				}
			}

			var frontSquares chess.Bitboard
			if c == chess.White {
				frontSquares = chess.SquareBB(sq).NorthFill() &^ chess.SquareBB(sq)
			} else {
				frontSquares = chess.SquareBB(sq).SouthFill() &^ chess.SquareBB(sq)
			}
			frontSquares &= chess.FileMask[file]
			pathClear := frontSquares&b.AllOccupied == 0
			if pathClear {
				bonus += passedPawnFreePathBonus
			}

			if pathClear && relRank >= 4 {
				squaresToPromo := 7 - relRank
				enemyKingDistToPawn := chebyshevDistance(enemyKingSq, sq)
				tempo := 0
				if b.SideToMove == c {
					tempo = 1
				}
				if enemyKingDistToPawn > squaresToPromo+1-tempo {
					egExtra += passedPawnUnstoppableBonus
				}
			}

			mgBonus += sg * bonus
			egBonus += sg * (bonus*3/2 + egExtra)
		}
	}
	return mgBonus, egBonus
}

func evaluateMobility(b *chess.Board) (mgBonus, egBonus int) {
	occupied := b.AllOccupied

	for c := chess.White; c <= chess.Black; c++ {
		sg := 1
		if c == chess.Black {
			sg = -1
		}

		enemyPawns := b.Pieces[c.Other()][chess.Pawn]
		var unsafe chess.Bitboard
		if c == chess.White {
			unsafe = enemyPawns.SouthEast() | enemyPawns.SouthWest()
		} else {
			unsafe = enemyPawns.NorthEast() | enemyPawns.NorthWest()
		}
		blocked := unsafe | b.Occupied[c]

		for pt := chess.Knight; pt <= chess.Queen; pt++ {
			pieces := b.Pieces[c][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				var attacks chess.Bitboard
				switch pt {
				case chess.Knight:
					attacks = chess.KnightAttacks(sq)
				case chess.Bishop:
					attacks = chess.BishopAttacks(sq, occupied)
				case chess.Rook:
					attacks = chess.RookAttacks(sq, occupied)
				case chess.Queen:
					attacks = chess.QueenAttacks(sq, occupied)
				}
				count := (attacks &^ blocked).PopCount()
				mgBonus += sg * mobilityMgWeight[pt] * count
				egBonus += sg * mobilityEgWeight[pt] * count
			}
		}
	}
	return mgBonus, egBonus
}

func evaluateKingSafety(b *chess.Board) int {
	var score int
	occupied := b.AllOccupied

	for c := chess.White; c <= chess.Black; c++ {
		sg := 1
		if c == chess.Black {
			sg = -1
		}

		kingSq := b.KingSquare[c]
		kingFile := kingSq.File()
		kingZone := chess.KingAttacks(kingSq) | chess.SquareBB(kingSq)
		if c == chess.White {
			kingZone |= kingZone.North()
		} else {
			kingZone |= kingZone.South()
		}

		enemy := c.Other()
		attackerCount, attackWeight := 0, 0

		for temp := b.Pieces[enemy][chess.Knight]; temp != 0; {
			sq := temp.PopLSB()
			if chess.KnightAttacks(sq)&kingZone != 0 {
				attackerCount++
				attackWeight += attackerWeight[chess.Knight]
			}
		}
		for temp := b.Pieces[enemy][chess.Bishop]; temp != 0; {
			sq := temp.PopLSB()
			if chess.BishopAttacks(sq, occupied)&kingZone != 0 {
				attackerCount++
				attackWeight += attackerWeight[chess.Bishop]
			}
		}
		for temp := b.Pieces[enemy][chess.Rook]; temp != 0; {
			sq := temp.PopLSB()
			if chess.RookAttacks(sq, occupied)&kingZone != 0 {
				attackerCount++
				attackWeight += attackerWeight[chess.Rook]
			}
		}
		for temp := b.Pieces[enemy][chess.Queen]; temp != 0; {
			sq := temp.PopLSB()
			if chess.QueenAttacks(sq, occupied)&kingZone != 0 {
				attackerCount++
				attackWeight += attackerWeight[chess.Queen]
			}
		}
		if attackerCount >= 2 {
			attackWeight = attackWeight * attackerCount / 2
		}
		score -= sg * attackWeight

		ownPawns := b.Pieces[c][chess.Pawn]
		enemyFilePawns := b.Pieces[enemy][chess.Pawn]

		for f := kingFile - 1; f <= kingFile+1; f++ {
			if f < 0 || f > 7 {
				continue
			}
			filePawns := ownPawns & chess.FileMask[f]
			enemyOnFile := enemyFilePawns & chess.FileMask[f]

			shieldRank := 1
			if c == chess.Black {
				shieldRank = 6
			}
			shieldMask := chess.FileMask[f] & chess.RankMask[shieldRank]
			if ownPawns&shieldMask != 0 {
				score += sg * pawnShieldBonus
			} else if filePawns == 0 {
				score += sg * pawnShieldMissing
			}

			if filePawns == 0 && enemyOnFile == 0 {
				score += sg * openFileNearKing
			} else if filePawns == 0 {
				score += sg * semiOpenFileNearKing
			}
		}
	}
	return score
}

func evaluateBishopPair(b *chess.Board) (mgBonus, egBonus int) {
	for c := chess.White; c <= chess.Black; c++ {
		sg := 1
		if c == chess.Black {
			sg = -1
		}
		if b.Pieces[c][chess.Bishop].PopCount() >= 2 {
			mgBonus += sg * bishopPairMgBonus
			egBonus += sg * bishopPairEgBonus
		}
	}
	return mgBonus, egBonus
}

func evaluateRooksOnFiles(b *chess.Board) (mgBonus, egBonus int) {
	for c := chess.White; c <= chess.Black; c++ {
		sg := 1
		if c == chess.Black {
			sg = -1
		}
		ownPawns := b.Pieces[c][chess.Pawn]
		enemyPawns := b.Pieces[c.Other()][chess.Pawn]

		for rooks := b.Pieces[c][chess.Rook]; rooks != 0; {
			sq := rooks.PopLSB()
			fileMask := chess.FileMask[sq.File()]
			hasOwn := ownPawns&fileMask != 0
			hasEnemy := enemyPawns&fileMask != 0
			if !hasOwn {
				if !hasEnemy {
					mgBonus += sg * rookOpenFileMg
					egBonus += sg * rookOpenFileEg
				} else {
					mgBonus += sg * rookSemiOpenFileMg
					egBonus += sg * rookSemiOpenFileEg
				}
			}
		}
	}
	return mgBonus, egBonus
}

func evaluatePawnStructure(b *chess.Board) (mgPenalty, egPenalty int) {
	for c := chess.White; c <= chess.Black; c++ {
		sg := 1
		if c == chess.Black {
			sg = -1
		}
		allPawns := b.Pieces[c][chess.Pawn]

		for pawns := allPawns; pawns != 0; {
			sq := pawns.PopLSB()
			file := sq.File()
			fileMask := chess.FileMask[file]

			pawnsOnFile := allPawns & fileMask
			if pawnsOnFile.PopCount() > 1 {
				var forward chess.Square
				if c == chess.White {
					forward = pawnsOnFile.MSB()
				} else {
					forward = pawnsOnFile.LSB()
				}
				if sq == forward {
					mgPenalty += sg * doubledPawnMgPenalty
					egPenalty += sg * doubledPawnEgPenalty
				}
			}

			var adjacentFiles chess.Bitboard
			if file > 0 {
				adjacentFiles |= chess.FileMask[file-1]
			}
			if file < 7 {
				adjacentFiles |= chess.FileMask[file+1]
			}
			if allPawns&adjacentFiles == 0 {
				mgPenalty += sg * isolatedPawnMgPenalty
				egPenalty += sg * isolatedPawnEgPenalty
			}
		}
	}
	return mgPenalty, egPenalty
}

func chebyshevDistance(a, b chess.Square) int {
	df := int(a.File()) - int(b.File())
	dr := int(a.Rank()) - int(b.Rank())
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
