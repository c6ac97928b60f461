package game

// Random is the source of randomness used for shuffling the bag.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	IntN(n int) int
}

// Supply 瓷砖袋(bag)与废弃盒(lid)
type Supply struct {
	Bag []Color
	Lid []Color
	rng Random
}

// NewSupply 创建装满 5×20 块瓷砖并已洗牌的袋子
func NewSupply(rng Random) Supply {
	bag := make([]Color, 0, NumColors*TilesPerColor)
	for _, c := range AllColors() {
		for i := 0; i < TilesPerColor; i++ {
			bag = append(bag, c)
		}
	}
	shuffle(rng, bag)
	return Supply{Bag: bag, rng: rng}
}

// Draw removes up to n tiles from the bag, refilling from the lid whenever the
// bag runs dry. Fewer than n tiles come back only when bag and lid are both empty.
func (s *Supply) Draw(n int) []Color {
	drawn := make([]Color, 0, n)
	for len(drawn) < n {
		if len(s.Bag) == 0 {
			s.Refill()
			if len(s.Bag) == 0 {
				break
			}
		}
		last := len(s.Bag) - 1
		drawn = append(drawn, s.Bag[last])
		s.Bag = s.Bag[:last]
	}
	return drawn
}

// Refill moves the lid into the bag and shuffles it.
func (s *Supply) Refill() {
	if len(s.Lid) == 0 {
		return
	}
	s.Bag = append(s.Bag, s.Lid...)
	s.Lid = s.Lid[:0]
	shuffle(s.rng, s.Bag)
}

// Discard 将瓷砖放入废弃盒
func (s *Supply) Discard(tiles ...Color) {
	s.Lid = append(s.Lid, tiles...)
}

// DiscardN puts n tiles of color c into the lid.
func (s *Supply) DiscardN(c Color, n int) {
	for i := 0; i < n; i++ {
		s.Lid = append(s.Lid, c)
	}
}

func (s Supply) count(c Color) int {
	n := 0
	for _, t := range s.Bag {
		if t == c {
			n++
		}
	}
	for _, t := range s.Lid {
		if t == c {
			n++
		}
	}
	return n
}

func (s Supply) clone() Supply {
	return Supply{
		Bag: append([]Color(nil), s.Bag...),
		Lid: append([]Color(nil), s.Lid...),
		rng: s.rng,
	}
}

// shuffle is a Fisher-Yates shuffle driven by rng.
func shuffle(rng Random, tiles []Color) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}
