package schedule

import (
	"fmt"
	"time"
)

// Slot timing constants. Show order determines rehearsal and performance
// timing, precomputed per slot rather than edited per team.
const (
	fridayBlockingStartHour  = 13 // 1:00 PM, 45-minute slots
	fridayBlockingSlotMins   = 45
	saturdayTechStartHour    = 8 // 8:00 AM, 40-minute slots (35 on stage)
	saturdayTechSlotMins     = 40
	saturdayGreenRoomHour    = 18 // staggered 10 minutes per slot
	saturdayShowDoorsHour    = 19
	saturdayFirstTeamMinute  = 30 // first team on at 7:30 PM
	saturdayPerformanceMins  = 12
)

// TemplateForOrder returns the fixed schedule template for a show-order slot.
// The returned schedule has IsPublished=false; callers preserve the team's
// existing publish flag when applying it.
// PRE: order is between MinShowOrder and MaxShowOrder
// POST: Returns a fully populated schedule with ShowOrder=order, or ErrInvalidShowOrder
func TemplateForOrder(order int) (Schedule, error) {
	if order < MinShowOrder || order > MaxShowOrder {
		return Schedule{}, ErrInvalidShowOrder
	}

	s := Schedule{
		ShowOrder:       order,
		Friday:          fridayTemplate(order),
		SaturdayTech:    saturdayTechTemplate(order),
		SaturdayPreShow: saturdayPreShowTemplate(order),
		SaturdayShow:    saturdayShowTemplate(order),
		SaturdayPostShow: PostShow{
			Placing: []Event{
				{Time: "10:30 PM", Activity: "Placing teams return to stage for awards", Location: "Main Stage"},
				{Time: "10:50 PM", Activity: "Trophy photos", Location: "Main Stage"},
				{Time: "11:15 PM", Activity: "Prop and equipment strike", Location: "Loading Dock"},
			},
			NonPlacing: []Event{
				{Time: "10:30 PM", Activity: "Watch awards from reserved seating", Location: "House Left, Rows A-C"},
				{Time: "11:00 PM", Activity: "Prop and equipment strike", Location: "Loading Dock"},
			},
		},
	}
	return s, nil
}

func fridayTemplate(order int) []Event {
	blocking := slotTime(fridayBlockingStartHour, 0, (order-1)*fridayBlockingSlotMins)
	return []Event{
		{Time: "11:00 AM", Activity: "Hotel check-in and registration", Location: "Hotel Lobby"},
		{Time: blocking, Activity: fmt.Sprintf("Blocking rehearsal (slot %d, 45 min)", order), Location: "Rehearsal Hall B"},
		{Time: "6:30 PM", Activity: "Welcome dinner", Location: "Hotel Ballroom"},
		{Time: "8:00 PM", Activity: "Liaison and captains meeting", Location: "Conference Room 2"},
	}
}

func saturdayTechTemplate(order int) []Event {
	call := slotTime(saturdayTechStartHour, 0, (order-1)*saturdayTechSlotMins)
	onStage := slotTime(saturdayTechStartHour, 5, (order-1)*saturdayTechSlotMins)
	return []Event{
		{Time: call, Activity: "Tech rehearsal call — report to stage manager", Location: "Stage Door"},
		{Time: onStage, Activity: "On stage: spacing, lights, and sound cues (35 min)", Location: "Main Stage"},
	}
}

func saturdayPreShowTemplate(order int) []Event {
	greenRoom := slotTime(saturdayGreenRoomHour, 0, (order-1)*10)
	return []Event{
		{Time: "4:00 PM", Activity: "Hair and makeup call", Location: "Dressing Rooms"},
		{Time: "5:00 PM", Activity: "Team dinner", Location: "Green Room Annex"},
		{Time: greenRoom, Activity: "Green room check-in with stage crew", Location: "Green Room"},
	}
}

func saturdayShowTemplate(order int) []Event {
	performance := slotTime(saturdayShowDoorsHour, saturdayFirstTeamMinute, (order-1)*saturdayPerformanceMins)
	wings := slotTime(saturdayShowDoorsHour, saturdayFirstTeamMinute-10, (order-1)*saturdayPerformanceMins)
	return []Event{
		{Time: "7:00 PM", Activity: "Doors open", Location: "Main Stage"},
		{Time: wings, Activity: "Standby in wings", Location: "Stage Right Wings"},
		{Time: performance, Activity: fmt.Sprintf("Performance — team %d of %d", order, MaxShowOrder), Location: "Main Stage"},
	}
}

// slotTime renders hour:00 plus an offset in minutes as a clock string.
func slotTime(hour, minute, offsetMins int) string {
	t := time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC).Add(time.Duration(offsetMins) * time.Minute)
	return t.Format("3:04 PM")
}
