package models

// ActivityType is a closed enumeration of workout activity types, mirroring
// the platform's workout-type catalog. ActivityOther is both the zero value
// and the parse fallback for names recorded by apps we do not recognize.
type ActivityType int

const (
	ActivityOther ActivityType = iota
	ActivityAmericanFootball
	ActivityArchery
	ActivityAustralianFootball
	ActivityBadminton
	ActivityBaseball
	ActivityBasketball
	ActivityBowling
	ActivityBoxing
	ActivityClimbing
	ActivityCricket
	ActivityCrossTraining
	ActivityCurling
	ActivityCycling
	ActivityDance
	ActivityElliptical
	ActivityEquestrianSports
	ActivityFencing
	ActivityFishing
	ActivityFunctionalStrengthTraining
	ActivityGolf
	ActivityGymnastics
	ActivityHandball
	ActivityHiking
	ActivityHockey
	ActivityHunting
	ActivityLacrosse
	ActivityMartialArts
	ActivityMindAndBody
	ActivityPaddleSports
	ActivityPlay
	ActivityPreparationAndRecovery
	ActivityRacquetball
	ActivityRowing
	ActivityRugby
	ActivityRunning
	ActivitySailing
	ActivitySkatingSports
	ActivitySnowSports
	ActivitySoccer
	ActivitySoftball
	ActivitySquash
	ActivityStairClimbing
	ActivitySurfingSports
	ActivitySwimming
	ActivityTableTennis
	ActivityTennis
	ActivityTrackAndField
	ActivityTraditionalStrengthTraining
	ActivityVolleyball
	ActivityWalking
	ActivityWaterFitness
	ActivityWaterPolo
	ActivityWaterSports
	ActivityWrestling
	ActivityYoga
	ActivityBarre
	ActivityCoreTraining
	ActivityCrossCountrySkiing
	ActivityDownhillSkiing
	ActivityFlexibility
	ActivityHighIntensityIntervalTraining
	ActivityJumpRope
	ActivityKickboxing
	ActivityPilates
	ActivitySnowboarding
	ActivityStairs
	ActivityStepTraining
	ActivityWheelchairWalkPace
	ActivityWheelchairRunPace
	ActivityTaiChi
	ActivityMixedCardio
	ActivityHandCycling
	ActivityDiscSports
	ActivityFitnessGaming
	ActivityCardioDance
	ActivitySocialDance
	ActivityPickleball
	ActivityCooldown
	ActivitySwimBikeRun
	ActivityTransition
	ActivityUnderwaterDiving
)

var activityNames = map[ActivityType]string{
	ActivityOther:                         "Other",
	ActivityAmericanFootball:              "American Football",
	ActivityArchery:                       "Archery",
	ActivityAustralianFootball:            "Australian Football",
	ActivityBadminton:                     "Badminton",
	ActivityBaseball:                      "Baseball",
	ActivityBasketball:                    "Basketball",
	ActivityBowling:                       "Bowling",
	ActivityBoxing:                        "Boxing",
	ActivityClimbing:                      "Climbing",
	ActivityCricket:                       "Cricket",
	ActivityCrossTraining:                 "Cross Training",
	ActivityCurling:                       "Curling",
	ActivityCycling:                       "Cycling",
	ActivityDance:                         "Dance",
	ActivityElliptical:                    "Elliptical",
	ActivityEquestrianSports:              "Equestrian Sports",
	ActivityFencing:                       "Fencing",
	ActivityFishing:                       "Fishing",
	ActivityFunctionalStrengthTraining:    "Functional Strength Training",
	ActivityGolf:                          "Golf",
	ActivityGymnastics:                    "Gymnastics",
	ActivityHandball:                      "Handball",
	ActivityHiking:                        "Hiking",
	ActivityHockey:                        "Hockey",
	ActivityHunting:                       "Hunting",
	ActivityLacrosse:                      "Lacrosse",
	ActivityMartialArts:                   "Martial Arts",
	ActivityMindAndBody:                   "Mind and Body",
	ActivityPaddleSports:                  "Paddle Sports",
	ActivityPlay:                          "Play",
	ActivityPreparationAndRecovery:        "Preparation and Recovery",
	ActivityRacquetball:                   "Racquetball",
	ActivityRowing:                        "Rowing",
	ActivityRugby:                         "Rugby",
	ActivityRunning:                       "Running",
	ActivitySailing:                       "Sailing",
	ActivitySkatingSports:                 "Skating Sports",
	ActivitySnowSports:                    "Snow Sports",
	ActivitySoccer:                        "Soccer",
	ActivitySoftball:                      "Softball",
	ActivitySquash:                        "Squash",
	ActivityStairClimbing:                 "Stair Climbing",
	ActivitySurfingSports:                 "Surfing Sports",
	ActivitySwimming:                      "Swimming",
	ActivityTableTennis:                   "Table Tennis",
	ActivityTennis:                        "Tennis",
	ActivityTrackAndField:                 "Track and Field",
	ActivityTraditionalStrengthTraining:   "Traditional Strength Training",
	ActivityVolleyball:                    "Volleyball",
	ActivityWalking:                       "Walking",
	ActivityWaterFitness:                  "Water Fitness",
	ActivityWaterPolo:                     "Water Polo",
	ActivityWaterSports:                   "Water Sports",
	ActivityWrestling:                     "Wrestling",
	ActivityYoga:                          "Yoga",
	ActivityBarre:                         "Barre",
	ActivityCoreTraining:                  "Core Training",
	ActivityCrossCountrySkiing:            "Cross Country Skiing",
	ActivityDownhillSkiing:                "Downhill Skiing",
	ActivityFlexibility:                   "Flexibility",
	ActivityHighIntensityIntervalTraining: "High Intensity Interval Training",
	ActivityJumpRope:                      "Jump Rope",
	ActivityKickboxing:                    "Kickboxing",
	ActivityPilates:                       "Pilates",
	ActivitySnowboarding:                  "Snowboarding",
	ActivityStairs:                        "Stairs",
	ActivityStepTraining:                  "Step Training",
	ActivityWheelchairWalkPace:            "Wheelchair Walk Pace",
	ActivityWheelchairRunPace:             "Wheelchair Run Pace",
	ActivityTaiChi:                        "Tai Chi",
	ActivityMixedCardio:                   "Mixed Cardio",
	ActivityHandCycling:                   "Hand Cycling",
	ActivityDiscSports:                    "Disc Sports",
	ActivityFitnessGaming:                 "Fitness Gaming",
	ActivityCardioDance:                   "Cardio Dance",
	ActivitySocialDance:                   "Social Dance",
	ActivityPickleball:                    "Pickleball",
	ActivityCooldown:                      "Cooldown",
	ActivitySwimBikeRun:                   "Swim Bike Run",
	ActivityTransition:                    "Transition",
	ActivityUnderwaterDiving:              "Underwater Diving",
}

// activityByName is the reverse of activityNames, built once at init.
var activityByName = func() map[string]ActivityType {
	m := make(map[string]ActivityType, len(activityNames))
	for t, name := range activityNames {
		m[name] = t
	}
	return m
}()

func (t ActivityType) String() string {
	if name, ok := activityNames[t]; ok {
		return name
	}
	return "Other"
}

// MarshalText renders the display name, so workout records serialize with
// readable activity names.
func (t ActivityType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText resolves a display name, mapping unknown names to Other.
func (t *ActivityType) UnmarshalText(text []byte) error {
	parsed, _ := ParseActivityType(string(text))
	*t = parsed
	return nil
}

// ParseActivityType resolves a stored workout-type name. Unknown names
// return ActivityOther and false.
func ParseActivityType(name string) (ActivityType, bool) {
	if t, ok := activityByName[name]; ok {
		return t, true
	}
	return ActivityOther, false
}
