package schedule

import "time"

var MatchCron = matchCron

func (s *Scheduler) SetTick(d time.Duration) { s.tick = d }
