package handlers

// System message ids sent back to the client in place of a full packet body.
// The catalogue is intentionally small: the ids the handlers in this
// package raise, plus systemMessageInventoryFull, which no handler sends.
const (
	systemMessageAuthFailed        int32 = 1
	systemMessageAlreadyLoggedIn   int32 = 2
	systemMessageCharacterNotFound int32 = 3
	systemMessageInvalidTarget     int32 = 4
	systemMessageItemNotFound      int32 = 5
	systemMessageNotEnoughAdena    int32 = 6
	systemMessageInventoryFull     int32 = 7
	systemMessagePartyFull         int32 = 8
	systemMessageAlreadyInParty    int32 = 9
	systemMessageNoPendingInvite   int32 = 10
	systemMessageNotPartyLeader    int32 = 11
	systemMessageAccessDenied      int32 = 12
)
