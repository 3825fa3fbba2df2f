package dixoncoles

// lowScore identifies the four score cells the tau correction touches.
type lowScore uint8

const (
	cellNone lowScore = iota
	cell00
	cell01
	cell10
	cell11
)

func lowScoreCell(x, y int) lowScore {
	switch {
	case x == 0 && y == 0:
		return cell00
	case x == 0 && y == 1:
		return cell01
	case x == 1 && y == 0:
		return cell10
	case x == 1 && y == 1:
		return cell11
	default:
		return cellNone
	}
}

func tauCell(c lowScore, lambda, mu, rho float64) float64 {
	switch c {
	case cell00:
		return 1 - lambda*mu*rho
	case cell01:
		return 1 + lambda*rho
	case cell10:
		return 1 + mu*rho
	case cell11:
		return 1 - rho
	default:
		return 1
	}
}

// Tau is the Dixon-Coles low-score correction for a home score x and away
// score y. It differs from one only for 0-0, 0-1, 1-0 and 1-1, and is
// exactly one everywhere when rho is zero.
func Tau(x, y int, lambda, mu, rho float64) float64 {
	return tauCell(lowScoreCell(x, y), lambda, mu, rho)
}
